package validate

// Messages are shown verbatim by the browser client.
var messages = map[string]string{
	"title.required":           "Un livre doit avoir un titre",
	"title.max":                "Un titre ne peut pas dépasser 100 caractères",
	"author.required":          "Un livre doit avoir un auteur",
	"isbn.isbn_format":         "L'ISBN doit contenir 10 ou 13 chiffres",
	"publishedYear.notfuture":  "L'année de publication ne peut pas être dans le futur",
	"publishedYear.min":        "L'année de publication doit être positive",
	"name.required":            "Veuillez fournir votre nom",
	"email.required":           "Veuillez fournir votre email",
	"email.email":              "Veuillez fournir un email valide",
	"password.required":        "Veuillez fournir un mot de passe",
	"password.min":             "Le mot de passe doit contenir au moins 8 caractères",
	"passwordConfirm.required": "Veuillez confirmer votre mot de passe",
	"passwordConfirm.eqfield":  "Les mots de passe ne correspondent pas",
	"role.oneof":               "Le rôle doit être user ou admin",
	"currentPassword.required": "Veuillez fournir votre mot de passe actuel",
	"newPassword.required":     "Veuillez fournir un nouveau mot de passe",
	"newPassword.min":          "Le mot de passe doit contenir au moins 8 caractères",
}

func message(field, tag, param string) string {
	if m, ok := messages[field+"."+tag]; ok {
		return m
	}
	switch tag {
	case "required":
		return "Le champ " + field + " est obligatoire"
	case "max":
		return "Le champ " + field + " ne peut pas dépasser " + param + " caractères"
	case "min":
		return "Le champ " + field + " doit contenir au moins " + param + " caractères"
	}
	return "Le champ " + field + " est invalide"
}
