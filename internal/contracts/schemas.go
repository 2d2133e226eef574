package contracts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed schemas
var schemasFS embed.FS

// Ключи зарегистрированных схем
const (
	ScoringWeightsV1      = "Weights/1.0.0"
	FindMatchesRequestV1  = "FindMatchesRequest/1.0.0"
	BestMatchesRequestV1  = "BestMatchesRequest/1.0.0"
	MatchCountsRequestV1  = "MatchCountsRequest/1.0.0"
	PropertyListedEventV1 = "PropertyListedEvent/1.0.0"
)

var compiledSchemas = make(map[string]*jsonschema.Schema)

func init() {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	root, err := fs.Sub(schemasFS, "schemas")
	if err != nil {
		log.Fatalf("failed to open embedded schemas: %v", err)
	}

	var paths []string
	// Сначала добавляем все схемы как ресурсы, чтобы работали $ref между ними
	err = fs.WalkDir(root, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		file, err := root.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		if err := compiler.AddResource(path, file); err != nil {
			return fmt.Errorf("add schema resource %s: %w", path, err)
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		log.Fatalf("error walking and adding schema resources: %v", err)
	}

	for _, path := range paths {
		schema, err := compiler.Compile(path)
		if err != nil {
			log.Fatalf("failed to compile schema %s: %v", path, err)
		}
		compiledSchemas[generateKeyFromPath(path)] = schema
	}
}

// generateKeyFromPath преобразует путь вида "events/property-listed/v1.json"
// в ключ вида "PropertyListedEvent/1.0.0".
// "weights/v1.json" превращается в "Weights/1.0.0".
func generateKeyFromPath(path string) string {
	parts := strings.Split(strings.TrimSuffix(path, ".json"), "/")
	if len(parts) < 2 {
		return ""
	}

	caser := cases.Title(language.English)
	version := strings.Replace(parts[len(parts)-1], "v", "", 1) + ".0.0"

	var name strings.Builder
	if len(parts) == 2 {
		name.WriteString(caser.String(parts[0]))
		return fmt.Sprintf("%s/%s", name.String(), version)
	}

	for _, p := range strings.Split(parts[1], "-") {
		name.WriteString(caser.String(p))
	}
	switch parts[0] {
	case "events":
		name.WriteString("Event")
	case "requests":
		name.WriteString("Request")
	}

	return fmt.Sprintf("%s/%s", name.String(), version)
}

// Validate проверяет JSON-документ по схеме с ключом key
func Validate(key string, body []byte) error {
	schema, ok := compiledSchemas[key]
	if !ok {
		return fmt.Errorf("schema '%s' not found", key)
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("body is not a valid JSON: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}

	return nil
}
