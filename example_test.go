package md2pptx_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	md2pptx "github.com/alnah/go-md2pptx"
)

// Example compiles a two-slide document. The closing slide is appended
// automatically.
func Example() {
	conv, err := md2pptx.NewConverter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	dir, err := os.MkdirTemp("", "md2pptx-example")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer os.RemoveAll(dir)

	result, err := conv.Compile(context.Background(), md2pptx.Input{
		Markdown: "---\ntitle: Facts\n---\n## [divider] Intro\n\n## [content] Facts\n- one\n- two\n",
		Output:   filepath.Join(dir, "facts.pptx"),
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println("slides:", result.Slides)
	fmt.Println("omitted:", result.Omitted)
	// Output:
	// slides: 3
	// omitted: 0
}

// ExampleConverterPool shows bounded batch compilation.
func ExampleConverterPool() {
	pool := md2pptx.NewConverterPool(md2pptx.ResolvePoolSize(2), md2pptx.WithTheme("academic"))
	defer pool.Close()

	conv, err := pool.Acquire()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer pool.Release(conv)

	fmt.Println(conv.Style().Name)
	// Output: academic
}

// ExampleLoadStyle resolves a built-in theme.
func ExampleLoadStyle() {
	style, err := md2pptx.LoadStyle("dark", "")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(style.Name, style.CodeTheme)
	// Output: dark monokai
}
