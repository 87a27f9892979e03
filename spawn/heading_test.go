package spawn

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const heroTemplate = `'use client'

export default function Hero() {
  return (
    <div className="bg-background">
      <div className="hidden sm:mb-10 sm:flex">
        The Next Generation of Search Optimization{' '}
        <a href="#" className="font-semibold">
          Learn about GEO <span aria-hidden="true">&rarr;</span>
        </a>
      </div>
      <h1 className="text-5xl font-semibold tracking-tight text-pretty text-foreground sm:text-7xl">
        SEO Velocity
      </h1>
      <p className="mt-8 text-lg">
        Don't just track rankings—track <strong>velocity</strong>.
      </p>
      <img alt="Dashboard" src="https://example.com/a.png" />
      <h1>Second heading</h1>
    </div>
  )
}
`

func testInjector() HeadingInjector {
	return HeadingInjector{
		Tag:       "h1",
		ClassName: "text-5xl font-semibold tracking-tight text-pretty text-foreground sm:text-7xl",
		Suffix:    ": AI Powered SEO",
	}
}

func TestHeadingInjector_Render(t *testing.T) {
	h := testInjector()
	assert.Equal(t,
		`<h1 className="text-5xl font-semibold tracking-tight text-pretty text-foreground sm:text-7xl">Fast Invoicing: AI Powered SEO</h1>`,
		h.Render("Fast Invoicing"))
}

func TestHeadingInjector_RenderEscapes(t *testing.T) {
	h := HeadingInjector{Tag: "H1", ClassName: `a"b`, Suffix: ""}
	assert.Equal(t, `<h1 className="a&quot;b">Tom &amp; Jerry &lt;3 &#123;x&#125;</h1>`, h.Render("Tom & Jerry <3 {x}"))
}

func TestHeadingInjector_Inject_ReplacesOnlyFirstHeading(t *testing.T) {
	h := testInjector()
	out, err := h.Inject([]byte(heroTemplate), "Fast Invoicing")
	require.NoError(t, err)

	oldStart := strings.Index(heroTemplate, "<h1 ")
	oldEnd := strings.Index(heroTemplate, "</h1>") + len("</h1>")
	want := heroTemplate[:oldStart] + h.Render("Fast Invoicing") + heroTemplate[oldEnd:]
	assert.Equal(t, want, string(out))

	assert.Contains(t, string(out), "Fast Invoicing: AI Powered SEO")
	assert.Contains(t, string(out), "<h1>Second heading</h1>")
	assert.NotContains(t, string(out), "SEO Velocity\n")
}

func TestHeadingInjector_Inject_NestedAndCased(t *testing.T) {
	h := HeadingInjector{Tag: "h1"}
	input := `<section><H1 id="a">outer <h1>inner</h1> tail</H1><p>after</p></section>`
	out, err := h.Inject([]byte(input), "New")
	require.NoError(t, err)
	assert.Equal(t, `<section><h1>New</h1><p>after</p></section>`, string(out))
}

func TestHeadingInjector_Inject_AfterRawTextNamedTags(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"self-closing iframe", `<div><iframe src="x" /><h1>Old</h1></div>`},
		{"next script component", `<div><Script src="a.js" strategy="afterInteractive" /><h1 className="big">SEO Velocity</h1></div>`},
		{"textarea component", `<form><Textarea placeholder="Ask" /></form><h1>Old</h1>`},
		{"styled-jsx block", "<div><style jsx>{`h1 { color: red; }`}</style><h1>Old</h1></div>"},
		{"title element", `<div><title>Page</title><noscript>off</noscript><h1>Old</h1></div>`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := HeadingInjector{Tag: "h1"}.Inject([]byte(tc.content), "New")
			require.NoError(t, err)
			assert.Contains(t, string(out), "<h1>New</h1>")
			assert.NotContains(t, string(out), "Old")
			assert.NotContains(t, string(out), "SEO Velocity")
		})
	}
}

func TestHeadingInjector_Inject_NotFound(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no heading", `<div><h2>Sub</h2></div>`},
		{"unclosed heading", `<div><h1>Open forever</div>`},
		{"empty file", ``},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := testInjector().Inject([]byte(tc.content), "X")
			assert.ErrorIs(t, err, ErrHeadingNotFound)
		})
	}
}

func TestHeadingInjector_InjectFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hero.tsx")
	require.NoError(t, os.WriteFile(path, []byte(heroTemplate), 0640))

	injected, err := testInjector().InjectFile(path, "Fast Invoicing")
	require.NoError(t, err)
	assert.True(t, injected)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), ">Fast Invoicing: AI Powered SEO</h1>")
}

func TestHeadingInjector_InjectFile_Missing(t *testing.T) {
	injected, err := testInjector().InjectFile(filepath.Join(t.TempDir(), "hero.tsx"), "X")
	require.NoError(t, err)
	assert.False(t, injected)
}

func TestHeadingInjector_InjectFile_NoHeadingLeavesFileUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hero.tsx")
	original := "export default function Hero() { return <div>no heading</div> }\n"
	require.NoError(t, os.WriteFile(path, []byte(original), 0644))

	injected, err := testInjector().InjectFile(path, "X")
	assert.ErrorIs(t, err, ErrHeadingNotFound)
	assert.False(t, injected)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, string(content))
}
