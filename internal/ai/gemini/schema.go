package gemini

import (
	"embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

var (
	teamFitSchema           = mustSchema("team_fit")
	skillMatchesSchema      = mustSchema("skill_matches")
	memberSuggestionsSchema = mustSchema("member_suggestions")
	leaderSuggestionSchema  = mustSchema("leader_suggestion")
)

type jsonSchema struct {
	name   string
	schema *gojsonschema.Schema
}

func mustSchema(name string) *jsonSchema {
	data, err := schemaFS.ReadFile("schemas/" + name + ".json")
	if err != nil {
		panic(fmt.Sprintf("missing embedded schema %q: %v", name, err))
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		panic(fmt.Sprintf("invalid embedded schema %q: %v", name, err))
	}

	return &jsonSchema{name: name, schema: schema}
}

// validate checks a decoded JSON document against the schema.
func (s *jsonSchema) validate(document any) error {
	result, err := s.schema.Validate(gojsonschema.NewGoLoader(document))
	if err != nil {
		return fmt.Errorf("validate %s response: %w", s.name, err)
	}

	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, e.String())
	}

	return fmt.Errorf("%s response does not match schema: %s", s.name, strings.Join(problems, "; "))
}
