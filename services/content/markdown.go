package content

import (
	"bytes"
	"html/template"

	"memberportal/models"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// Raw HTML in descriptions is dropped because WithUnsafe is not set.
var mdRenderer = goldmark.New(
	goldmark.WithExtensions(extension.Linkify),
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// RenderMarkdown converts an admin-authored description to HTML. On a render
// failure the escaped source is returned instead.
func RenderMarkdown(md string) string {
	if md == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTMLEscapeString(md)
	}
	return buf.String()
}

type ProgramView struct {
	*models.Program
	DescriptionHTML string `json:"descriptionHtml"`
}

type EventView struct {
	*models.Event
	DescriptionHTML string `json:"descriptionHtml"`
}

type OpportunityView struct {
	*models.Opportunity
	DescriptionHTML string `json:"descriptionHtml"`
}

func ProgramViews(items []*models.Program) []ProgramView {
	out := make([]ProgramView, 0, len(items))
	for _, p := range items {
		out = append(out, ProgramView{Program: p, DescriptionHTML: RenderMarkdown(p.Description)})
	}
	return out
}

func EventViews(items []*models.Event) []EventView {
	out := make([]EventView, 0, len(items))
	for _, e := range items {
		out = append(out, EventView{Event: e, DescriptionHTML: RenderMarkdown(e.Description)})
	}
	return out
}

func OpportunityViews(items []*models.Opportunity) []OpportunityView {
	out := make([]OpportunityView, 0, len(items))
	for _, o := range items {
		out = append(out, OpportunityView{Opportunity: o, DescriptionHTML: RenderMarkdown(o.Description)})
	}
	return out
}
