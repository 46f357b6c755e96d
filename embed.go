package website

import _ "embed"

// Stylesheet is the site stylesheet shipped with the binary and served at
// /public/site.css.
//
//go:embed embedded/site.css
var Stylesheet []byte
