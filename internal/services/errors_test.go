package services

import (
	"net/http"
	"testing"
)

func TestDecodeAPIError(t *testing.T) {
	t.Run("Detail Message", func(t *testing.T) {
		err := decodeAPIError(http.StatusBadRequest, []byte(`{"detail": "something broke"}`))

		if err.Kind != KindGeneral {
			t.Errorf("expected KindGeneral, got %v", err.Kind)
		}
		if err.Banner() != "something broke" {
			t.Errorf("expected detail message, got %q", err.Banner())
		}
	})

	t.Run("Unauthorized Is Auth Kind", func(t *testing.T) {
		err := decodeAPIError(http.StatusUnauthorized, []byte(`{"detail": "Given token not valid for any token type"}`))

		if err.Kind != KindAuth {
			t.Errorf("expected KindAuth, got %v", err.Kind)
		}
		if err.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", err.StatusCode)
		}
	})

	t.Run("Not Found Kind", func(t *testing.T) {
		err := decodeAPIError(http.StatusNotFound, []byte(`{"detail": "Not found."}`))

		if err.Kind != KindNotFound {
			t.Errorf("expected KindNotFound, got %v", err.Kind)
		}
	})

	t.Run("Field Errors Without Detail Use Fallback Banner", func(t *testing.T) {
		err := decodeAPIError(http.StatusBadRequest, []byte(`{"title": ["This field is required."]}`))

		if err.Kind != KindFieldErrors {
			t.Fatalf("expected KindFieldErrors, got %v", err.Kind)
		}
		msgs := err.FieldMessages("title")
		if len(msgs) != 1 || msgs[0] != "This field is required." {
			t.Errorf("expected title message, got %v", msgs)
		}
		if err.Banner() != FallbackBanner {
			t.Errorf("expected fallback banner, got %q", err.Banner())
		}
	})

	t.Run("Non Field Errors Take Banner Precedence", func(t *testing.T) {
		body := []byte(`{"non_field_errors": ["Duplicate entry."], "detail": "ignored", "title": ["Too long."]}`)
		err := decodeAPIError(http.StatusBadRequest, body)

		if err.Kind != KindFieldErrors {
			t.Fatalf("expected KindFieldErrors, got %v", err.Kind)
		}
		if err.Banner() != "Duplicate entry." {
			t.Errorf("expected non_field_errors banner, got %q", err.Banner())
		}
		if got := err.FieldMessages("title"); len(got) != 1 || got[0] != "Too long." {
			t.Errorf("expected title field message alongside, got %v", got)
		}
	})

	t.Run("Bare String Field Message", func(t *testing.T) {
		err := decodeAPIError(http.StatusBadRequest, []byte(`{"difficulty": "A valid integer is required."}`))

		msgs := err.FieldMessages("difficulty")
		if len(msgs) != 1 || msgs[0] != "A valid integer is required." {
			t.Errorf("expected single coerced message, got %v", msgs)
		}
	})

	t.Run("Non JSON Body", func(t *testing.T) {
		err := decodeAPIError(http.StatusBadGateway, []byte("<html>bad gateway</html>"))

		if err.Kind != KindGeneral {
			t.Errorf("expected KindGeneral, got %v", err.Kind)
		}
		if err.Banner() == "" {
			t.Error("expected a generic message for non-JSON body")
		}
	})

	t.Run("Error String Mentions Fields", func(t *testing.T) {
		err := decodeAPIError(http.StatusBadRequest, []byte(`{"title": ["bad"], "category": ["bad"]}`))

		want := "validation failed (400): category, title"
		if err.Error() != want {
			t.Errorf("expected %q, got %q", want, err.Error())
		}
	})
}
