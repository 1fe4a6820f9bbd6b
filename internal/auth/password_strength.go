package auth

import (
	"net/http"
	"strconv"
	"strings"
	"unicode"
)

// passwordHints sets X-Password-Score, and X-Password-Warning for weak
// passwords. It never rejects a password.
func passwordHints(w http.ResponseWriter, pwd string, hints ...string) {
	score, warn := strength(pwd, hints...)
	w.Header().Set("X-Password-Score", strconv.Itoa(score))
	if score < 3 && warn != "" {
		w.Header().Set("X-Password-Warning", warn)
	}
}

// strength gives a coarse 0..4 score and a short warning.
func strength(pwd string, hints ...string) (int, string) {
	l := len([]rune(pwd))
	var hasL, hasU, hasD, hasS bool
	for _, r := range pwd {
		switch {
		case unicode.IsLower(r):
			hasL = true
		case unicode.IsUpper(r):
			hasU = true
		case unicode.IsDigit(r):
			hasD = true
		default:
			hasS = true
		}
	}
	classes := 0
	for _, b := range []bool{hasL, hasU, hasD, hasS} {
		if b {
			classes++
		}
	}

	// small penalty if password contains a hint (like email/name)
	lower := strings.ToLower(pwd)
	for _, h := range hints {
		h = strings.ToLower(strings.TrimSpace(h))
		if local, _, ok := strings.Cut(h, "@"); ok {
			h = local
		}
		if len(h) >= 3 && strings.Contains(lower, h) && l < 16 {
			if classes > 1 {
				classes--
			}
			break
		}
	}

	switch {
	case l >= 14 && classes >= 3:
		return 4, ""
	case l >= 12 && classes >= 3:
		return 3, ""
	case l >= 10 && classes >= 2:
		return 2, "Mot de passe court ou peu varié"
	case l >= 8:
		return 1, "Mot de passe trop court ou prévisible"
	default:
		return 0, "Mot de passe très faible"
	}
}
