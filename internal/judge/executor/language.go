package executor

import "sort"

// Language maps a logical language id to backend-specific identifiers.
// A zero Judge0ID or empty PistonName means the language has no mapping
// for that backend and execution against it is skipped.
type Language struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	PistonName    string `json:"piston_name"`
	PistonVersion string `json:"piston_version"`
	Judge0ID      int    `json:"judge0_id"`
	Extension     string `json:"extension"`
	Scaffold      string `json:"scaffold"`
}

// builtinLanguages is the default language catalog. Versions follow what
// the public piston runtime list ships; judge0 ids follow its CE catalog.
var builtinLanguages = []Language{
	{
		ID:            "python",
		Name:          "Python 3",
		PistonName:    "python",
		PistonVersion: "3.10.0",
		Judge0ID:      71,
		Extension:     "py",
		Scaffold:      "# Read input from stdin and print the answer\n",
	},
	{
		ID:            "javascript",
		Name:          "JavaScript (Node.js)",
		PistonName:    "javascript",
		PistonVersion: "18.15.0",
		Judge0ID:      63,
		Extension:     "js",
		Scaffold:      "// Read input from stdin and print the answer\n",
	},
	{
		ID:            "java",
		Name:          "Java",
		PistonName:    "java",
		PistonVersion: "15.0.2",
		Judge0ID:      62,
		Extension:     "java",
		Scaffold:      "public class Main {\n    public static void main(String[] args) {\n    }\n}\n",
	},
	{
		ID:            "cpp",
		Name:          "C++",
		PistonName:    "c++",
		PistonVersion: "10.2.0",
		Judge0ID:      54,
		Extension:     "cpp",
		Scaffold:      "#include <bits/stdc++.h>\nint main() {\n    return 0;\n}\n",
	},
	{
		ID:            "c",
		Name:          "C",
		PistonName:    "c",
		PistonVersion: "10.2.0",
		Judge0ID:      50,
		Extension:     "c",
		Scaffold:      "#include <stdio.h>\nint main(void) {\n    return 0;\n}\n",
	},
	{
		ID:            "go",
		Name:          "Go",
		PistonName:    "go",
		PistonVersion: "1.16.2",
		Judge0ID:      60,
		Extension:     "go",
		Scaffold:      "package main\n\nfunc main() {\n}\n",
	},
}

// Catalog resolves logical language ids to descriptors.
type Catalog struct {
	byID map[string]Language
}

// NewCatalog creates a catalog from the given languages, falling back to
// the builtin set when none are provided.
func NewCatalog(languages []Language) *Catalog {
	if len(languages) == 0 {
		languages = builtinLanguages
	}
	byID := make(map[string]Language, len(languages))
	for _, lang := range languages {
		byID[lang.ID] = lang
	}
	return &Catalog{byID: byID}
}

// Lookup returns the descriptor for a logical language id.
func (c *Catalog) Lookup(id string) (Language, bool) {
	lang, ok := c.byID[id]
	return lang, ok
}

// All returns every language in the catalog, ordered by id.
func (c *Catalog) All() []Language {
	out := make([]Language, 0, len(c.byID))
	for _, lang := range c.byID {
		out = append(out, lang)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
