//go:build bench

package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// BenchmarkRender compares plain rendering with render-time highlighting.
func BenchmarkRender(b *testing.B) {
	ctx := context.Background()
	content := generateMixedMarkdown(50)

	renderers := []struct {
		name string
		r    *GoldmarkRenderer
	}{
		{"plain", NewGoldmarkRenderer()},
		{"inline_highlighting", NewGoldmarkRenderer(WithInlineHighlighting("github"))},
	}

	for _, tc := range renderers {
		b.Run(tc.name, func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if _, err := tc.r.Render(ctx, content); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkRenderBySize measures how rendering scales with document size.
func BenchmarkRenderBySize(b *testing.B) {
	r := NewGoldmarkRenderer()
	ctx := context.Background()

	for _, size := range []int{1, 10, 100, 500} {
		content := generateMixedMarkdown(size)
		b.Run(fmt.Sprintf("sections_%d", size), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if _, err := r.Render(ctx, content); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkRenderParallel checks a shared renderer under concurrent reads.
func BenchmarkRenderParallel(b *testing.B) {
	r := NewGoldmarkRenderer()
	ctx := context.Background()
	content := generateMixedMarkdown(20)

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := r.Render(ctx, content); err != nil {
				b.Fatal(err)
			}
		}
	})
}

// BenchmarkPrepareMarkdown measures the pre-render text pass.
func BenchmarkPrepareMarkdown(b *testing.B) {
	content := strings.ReplaceAll(generateMixedMarkdown(100), "\n", "\r\n") + "==marked=="

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = PrepareMarkdown(content)
	}
}

func generateMixedMarkdown(sections int) string {
	var sb strings.Builder
	sb.WriteString("# Document Title\n\n")
	sb.WriteString("Introduction paragraph with **bold** and *italic* text.\n\n")

	for i := 0; i < sections; i++ {
		sb.WriteString(fmt.Sprintf("## Section %d\n\n", i+1))
		sb.WriteString("This is a paragraph with some content. ")
		sb.WriteString("It includes [links](https://example.com) and `inline code`.\n\n")

		sb.WriteString("- Item one\n")
		sb.WriteString("- Item two\n")
		sb.WriteString("- Item three\n\n")

		if i%3 == 0 {
			sb.WriteString("```lua\nlocal function greet(name)\n  print(\"hi \" .. name)\nend\n```\n\n")
		}

		if i%5 == 0 {
			sb.WriteString("| A | B | C |\n|---|---|---|\n| 1 | 2 | 3 |\n\n")
		}
	}

	return sb.String()
}
