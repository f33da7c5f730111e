package detector

import (
	"testing"
)

func TestLocale(t *testing.T) {
	d, err := New([]string{"en", "de", "fr"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "english",
			text: "The staging database is rebuilt from scratch whenever an import run fails halfway through.",
			want: "en",
		},
		{
			name: "german",
			text: "Die Datenbank wird bei jedem fehlgeschlagenen Import vollständig neu aufgebaut und danach wieder befüllt.",
			want: "de",
		},
		{
			name: "french",
			text: "La base de données intermédiaire est reconstruite entièrement lorsque l'importation échoue en cours de route.",
			want: "fr",
		},
		{name: "too short", text: "ok", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.Locale(tt.text); got != tt.want {
				t.Errorf("Locale() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNew_InvalidLanguages(t *testing.T) {
	tests := []struct {
		name      string
		languages []string
	}{
		{name: "single language", languages: []string{"en"}},
		{name: "unknown code", languages: []string{"en", "zz"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.languages); err == nil {
				t.Error("New() succeeded")
			}
		})
	}
}
