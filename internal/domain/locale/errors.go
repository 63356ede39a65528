package locale

import "errors"

// ErrUnsupportedLanguage is returned when no dictionary exists for a language.
var ErrUnsupportedLanguage = errors.New("unsupported language")
