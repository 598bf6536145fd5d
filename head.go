package seam

import (
	"html"
	"sort"
	"strings"
)

// LinkTag is an arbitrary <link> entry for the document head.
type LinkTag struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
	Type string `json:"type,omitempty"`
	As   string `json:"as,omitempty"`
}

// MetaTag is an arbitrary <meta> entry for the document head.
type MetaTag struct {
	Name     string `json:"name,omitempty"`
	Property string `json:"property,omitempty"`
	Content  string `json:"content"`
}

// HeadData describes document head metadata.
//
// Two instances exist per request: the pipeline-wide defaults and the
// per-route override the handler returned. mergeHead combines them into one
// effective instance - list fields concatenate, scalar fields let the
// per-route value win.
type HeadData struct {
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Canonical   string            `json:"canonical,omitempty"`
	OpenGraph   map[string]string `json:"openGraph,omitempty"`
	Links       []LinkTag         `json:"links,omitempty"`
	Metas       []MetaTag         `json:"metas,omitempty"`
}

// mergeHead combines the pipeline default with a per-route override.
// Neither input is mutated.
func mergeHead(base HeadData, over *HeadData) HeadData {
	out := base
	out.OpenGraph = make(map[string]string, len(base.OpenGraph))
	for k, v := range base.OpenGraph {
		out.OpenGraph[k] = v
	}
	out.Links = append([]LinkTag(nil), base.Links...)
	out.Metas = append([]MetaTag(nil), base.Metas...)

	if over == nil {
		return out
	}
	if over.Title != "" {
		out.Title = over.Title
	}
	if over.Description != "" {
		out.Description = over.Description
	}
	if over.Canonical != "" {
		out.Canonical = over.Canonical
	}
	for k, v := range over.OpenGraph {
		out.OpenGraph[k] = v
	}
	out.Links = append(out.Links, over.Links...)
	out.Metas = append(out.Metas, over.Metas...)
	return out
}

// tags renders the head metadata as HTML, spliced into the template's head
// marker on full renders and applied by the client runtime on segment
// navigations.
func (h HeadData) tags() string {
	var sb strings.Builder

	if h.Title != "" {
		sb.WriteString("<title>")
		sb.WriteString(html.EscapeString(h.Title))
		sb.WriteString("</title>")
	}
	if h.Description != "" {
		writeMeta(&sb, "name", "description", h.Description)
	}
	if h.Canonical != "" {
		sb.WriteString(`<link rel="canonical" href="`)
		sb.WriteString(html.EscapeString(h.Canonical))
		sb.WriteString(`">`)
	}

	// Deterministic output for map-backed OG fields.
	ogKeys := make([]string, 0, len(h.OpenGraph))
	for k := range h.OpenGraph {
		ogKeys = append(ogKeys, k)
	}
	sort.Strings(ogKeys)
	for _, k := range ogKeys {
		writeMeta(&sb, "property", "og:"+k, h.OpenGraph[k])
	}

	for _, m := range h.Metas {
		if m.Property != "" {
			writeMeta(&sb, "property", m.Property, m.Content)
		} else {
			writeMeta(&sb, "name", m.Name, m.Content)
		}
	}
	for _, l := range h.Links {
		sb.WriteString(`<link rel="`)
		sb.WriteString(html.EscapeString(l.Rel))
		sb.WriteString(`" href="`)
		sb.WriteString(html.EscapeString(l.Href))
		sb.WriteString(`"`)
		if l.Type != "" {
			sb.WriteString(` type="`)
			sb.WriteString(html.EscapeString(l.Type))
			sb.WriteString(`"`)
		}
		if l.As != "" {
			sb.WriteString(` as="`)
			sb.WriteString(html.EscapeString(l.As))
			sb.WriteString(`"`)
		}
		sb.WriteString(`>`)
	}

	return sb.String()
}

func writeMeta(sb *strings.Builder, attr, key, content string) {
	sb.WriteString(`<meta `)
	sb.WriteString(attr)
	sb.WriteString(`="`)
	sb.WriteString(html.EscapeString(key))
	sb.WriteString(`" content="`)
	sb.WriteString(html.EscapeString(content))
	sb.WriteString(`">`)
}
