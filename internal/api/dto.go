package api

import (
	"net/url"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/wunjo/internal/render"
	"github.com/starford/wunjo/internal/snippet"
	"github.com/starford/wunjo/internal/viewservice"
)

const maxParamLen = 1024

// ViewRequest holds the query parameters of GET /api/view.
type ViewRequest struct {
	Subject        string   `json:"subject" example:"#project"`
	Current        string   `json:"current" example:"people/Bob.md"`
	Columns        []string `json:"columns" example:"status,owner"`
	ExcludeFolders []string `json:"exclude_folders" example:"_scripts,archive"`
	HideKeys       []string `json:"hide_keys" example:"secret"`
	ExcludeCurrent *bool    `json:"exclude_current,omitempty"`
	Debug          bool     `json:"debug"`
	Format         string   `json:"format" example:"json"`
}

// viewRequestFromQuery reads a ViewRequest from URL query values. List
// parameters may be repeated or comma-separated.
func viewRequestFromQuery(q url.Values) ViewRequest {
	return ViewRequest{
		Subject:        q.Get("subject"),
		Current:        q.Get("current"),
		Columns:        listParam(q, "columns"),
		ExcludeFolders: listParam(q, "exclude_folders"),
		HideKeys:       listParam(q, "hide_keys"),
		ExcludeCurrent: optionalBoolParam(q, "exclude_current"),
		Debug:          boolParam(q, "debug"),
		Format:         strings.ToLower(q.Get("format")),
	}
}

// Validate validates the view request.
func (r ViewRequest) Validate() error {
	formats := make([]interface{}, 0, len(render.Formats))
	for _, f := range render.Formats {
		formats = append(formats, string(f))
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Subject, validation.Length(0, maxParamLen)),
		validation.Field(&r.Current, validation.Length(0, maxParamLen)),
		validation.Field(&r.Columns, validation.Each(validation.Required, validation.Length(1, 128))),
		validation.Field(&r.ExcludeFolders, validation.Each(validation.Required, validation.Length(1, maxParamLen))),
		validation.Field(&r.HideKeys, validation.Each(validation.Required, validation.Length(1, 128))),
		validation.Field(&r.Format, validation.In(formats...)),
	)
}

// serviceRequest converts the request for the view service.
func (r ViewRequest) serviceRequest() viewservice.Request {
	f, _ := render.ParseFormat(r.Format)
	if f == render.FormatAuto {
		f = render.FormatJSON
	}
	return viewservice.Request{
		Subject:        r.Subject,
		Current:        r.Current,
		Columns:        r.Columns,
		ExcludeFolders: r.ExcludeFolders,
		HideKeys:       r.HideKeys,
		ExcludeCurrent: r.ExcludeCurrent,
		Debug:          r.Debug,
		Format:         f,
	}
}

// SnippetRequest holds the query parameters of GET /api/snippet.
type SnippetRequest struct {
	Msg    string `json:"msg" example:"p;Jane Smith &role=designer" validate:"required"`
	Prefix string `json:"prefix" example:"People/"`
}

// Validate validates the snippet request.
func (r SnippetRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Msg, validation.Required, validation.Length(1, maxParamLen)),
		validation.Field(&r.Prefix, validation.Length(0, maxParamLen)),
	)
}

// Snippet is the parsed snippet response type (aliased from the domain layer).
type Snippet = snippet.Snippet

// DocumentSummary is a lightweight item in a list response (aliased from the domain layer).
type DocumentSummary = viewservice.DocumentSummary

// DocumentListResponse wraps document listings.
type DocumentListResponse struct {
	Documents []DocumentSummary `json:"documents" validate:"required"`
	Total     int               `json:"total" example:"42" validate:"required"`
}

func listParam(q url.Values, key string) []string {
	raw, ok := q[key]
	if !ok {
		return nil
	}
	out := []string{}
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// optionalBoolParam returns nil when key is absent or not a boolean.
func optionalBoolParam(q url.Values, key string) *bool {
	if !q.Has(key) {
		return nil
	}
	b, err := strconv.ParseBool(q.Get(key))
	if err != nil {
		return nil
	}
	return &b
}

func boolParam(q url.Values, key string) bool {
	b, _ := strconv.ParseBool(q.Get(key))
	return b
}
