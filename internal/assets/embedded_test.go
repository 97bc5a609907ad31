package assets

import (
	"errors"
	"testing"
)

func TestEmbeddedLoader_LoadTemplate(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	tests := []struct {
		name     string
		template string
		wantErr  error
	}{
		{name: "page template", template: DefaultTemplateName},
		{name: "missing template", template: "nope", wantErr: ErrTemplateNotFound},
		{name: "empty name", template: "", wantErr: ErrInvalidAssetName},
		{name: "extension in name", template: "page.html", wantErr: ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := loader.LoadTemplate(tt.template)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("LoadTemplate(%q) error = %v, want %v", tt.template, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadTemplate(%q) error = %v", tt.template, err)
			}
			if got == "" {
				t.Error("LoadTemplate() returned empty content")
			}
		})
	}
}
