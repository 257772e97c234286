package platformerrors

import "testing"

func TestCatalogCoversAllTypeKeys(t *testing.T) {
	types := []ErrorType{
		ErrorTypeInternal,
		ErrorTypeValidation,
		ErrorTypeNotFound,
		ErrorTypeConflict,
		ErrorTypeUnauthorized,
		ErrorTypeForbidden,
		ErrorTypeTimeout,
		ErrorTypeExternal,
		ErrorTypeRateLimited,
	}
	for _, typ := range types {
		key := TypeKey(typ)
		entry, ok := Catalog(key)
		if !ok {
			t.Errorf("catalog missing entry for %q", key)
			continue
		}
		if entry.Title == "" {
			t.Errorf("catalog entry %q has empty title", key)
		}
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := New(ErrorTypeTimeout, "command timed out")
	wrapped := Wrap(ErrorTypeExternal, cause, "failed to send message")

	pe := Get(wrapped)
	if pe == nil {
		t.Fatal("Get() returned nil for a PlatformError")
	}
	if pe.Type != ErrorTypeExternal {
		t.Errorf("Type = %v, want ErrorTypeExternal", pe.Type)
	}
	if got := wrapped.Error(); got != "failed to send message: command timed out" {
		t.Errorf("Error() = %q", got)
	}
}
