package controllers

import (
	"lms/assets"
	"lms/progression"
	"lms/store"
)

// Dependencies are the collaborators the course handlers run against.
type Dependencies struct {
	Engine *progression.Engine
	Store  *store.Store
	Assets assets.Store
	// TemplateKey is where uploaded certificate templates are stored.
	TemplateKey string
}

var deps Dependencies

// Init must be called before routes are served.
func Init(d Dependencies) {
	deps = d
}
