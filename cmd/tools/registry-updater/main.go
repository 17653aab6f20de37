// cmd/tools/registry-updater/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"realestate-marketplace/pkg/registry"
)

const defaultRegistryPath = "pkg/registry/endpoints.json"

func main() {
	listCmd := flag.NewFlagSet("list", flag.ExitOnError)
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)

	listPath := listCmd.String("path", defaultRegistryPath, "Path to registry file")
	listCategory := listCmd.String("category", "", "Only list endpoints in this category")

	addPath := addCmd.String("path", defaultRegistryPath, "Path to registry file")
	idAdd := addCmd.String("id", "", "Endpoint ID (e.g., list-properties)")
	displayName := addCmd.String("displayName", "", "Display Name (e.g., List Properties)")
	description := addCmd.String("description", "", "Description")
	category := addCmd.String("category", "", "Category (e.g., catalog)")
	method := addCmd.String("method", "GET", "HTTP method")
	path := addCmd.String("route", "", "Route path (e.g., /api/v1/properties)")
	access := addCmd.String("access", registry.AccessPublic, "Access level (public, user, admin)")
	implStatus := addCmd.String("status", "planned", "Implementation Status (planned, in-progress, completed)")

	updatePath := updateCmd.String("path", defaultRegistryPath, "Path to registry file")
	idUpdate := updateCmd.String("id", "", "Endpoint ID to update")
	field := updateCmd.String("field", "", "Field to update (status, displayName, description, category, timeout, access)")
	value := updateCmd.String("value", "", "New value for the field")

	validatePath := validateCmd.String("path", defaultRegistryPath, "Path to registry file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "list":
		listCmd.Parse(os.Args[2:])
		if err := listEndpoints(*listPath, *listCategory); err != nil {
			fmt.Printf("Error listing endpoints: %v\n", err)
			os.Exit(1)
		}

	case "add":
		addCmd.Parse(os.Args[2:])
		if *idAdd == "" || *displayName == "" || *category == "" || *path == "" {
			fmt.Println("Error: id, displayName, category, and route are required for add.")
			addCmd.Usage()
			os.Exit(1)
		}
		ep := registry.Endpoint{
			ID:                   *idAdd,
			DisplayName:          *displayName,
			Description:          *description,
			Category:             *category,
			Method:               strings.ToUpper(*method),
			Path:                 *path,
			Access:               *access,
			ImplementationStatus: *implStatus,
			ErrorCodes:           []string{},
			Timeout:              "10s",
			Tags:                 []string{},
		}
		if err := addEndpoint(*addPath, ep); err != nil {
			fmt.Printf("Error adding endpoint: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added endpoint: %s\n", *idAdd)

	case "update":
		updateCmd.Parse(os.Args[2:])
		if *idUpdate == "" || *field == "" || *value == "" {
			fmt.Println("Error: id, field, and value are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		if err := updateEndpoint(*updatePath, *idUpdate, *field, *value); err != nil {
			fmt.Printf("Error updating endpoint: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated endpoint %s, field %s to %s\n", *idUpdate, *field, *value)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		n, err := validateRegistry(*validatePath)
		if err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Registry validation passed. Found %d endpoints.\n", n)

	case "help":
		fallthrough
	default:
		help()
	}
}

func listEndpoints(path, category string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	eps := append([]registry.Endpoint(nil), reg.Endpoints...)
	sort.SliceStable(eps, func(i, j int) bool { return eps[i].Path < eps[j].Path })

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMETHOD\tPATH\tACCESS\tSTATUS")
	for _, ep := range eps {
		if category != "" && ep.Category != category {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", ep.ID, ep.Method, ep.Path, ep.Access, ep.ImplementationStatus)
	}
	return tw.Flush()
}

func addEndpoint(path string, ep registry.Endpoint) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		reg = &registry.Registry{Version: "1.0.0", Endpoints: []registry.Endpoint{}}
	}

	if _, exists := reg.Find(ep.ID); exists {
		return fmt.Errorf("endpoint with ID %s already exists", ep.ID)
	}
	reg.Endpoints = append(reg.Endpoints, ep)
	if err := reg.Check(); err != nil {
		return err
	}
	return saveRegistry(reg, path)
}

func updateEndpoint(path, id, field, value string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	ep, ok := reg.Find(id)
	if !ok {
		return fmt.Errorf("endpoint with ID %s not found", id)
	}

	switch field {
	case "status":
		ep.ImplementationStatus = value
	case "displayName":
		ep.DisplayName = value
	case "description":
		ep.Description = value
	case "category":
		ep.Category = value
	case "timeout":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid timeout value: %w", err)
		}
		ep.Timeout = value
	case "access":
		ep.Access = value
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	if err := reg.Check(); err != nil {
		return err
	}
	return saveRegistry(reg, path)
}

// validateRegistry checks the registry structure and compiles every input
// schema.
func validateRegistry(path string) (int, error) {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return 0, fmt.Errorf("failed to load registry: %w", err)
	}
	if err := reg.Check(); err != nil {
		return 0, err
	}

	for _, ep := range reg.Endpoints {
		doc, ok, err := ep.SchemaDocument()
		if err != nil {
			return 0, err
		}
		if !ok {
			continue
		}
		if _, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(doc)); err != nil {
			return 0, fmt.Errorf("endpoint %s: invalid input schema: %w", ep.ID, err)
		}
		if ep.Timeout != "" {
			if _, err := time.ParseDuration(ep.Timeout); err != nil {
				return 0, fmt.Errorf("endpoint %s: invalid timeout %q", ep.ID, ep.Timeout)
			}
		}
	}
	return len(reg.Endpoints), nil
}

func saveRegistry(reg *registry.Registry, path string) error {
	reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

func help() {
	fmt.Print(`
Usage: registry-updater <command> [flags]

Commands:
  list      List registered endpoints
  add       Add a new endpoint to the registry
  update    Update an existing endpoint's field
  validate  Validate the registry file and compile every input schema
  help      Show this help message

Examples:
  registry-updater list -category admin
  registry-updater add -id list-agents -displayName "List Agents" -category catalog -route /api/v1/agents
  registry-updater update -id list-agents -field status -value completed
  registry-updater validate -path pkg/registry/endpoints.json

Use 'registry-updater <command> -h' for more information about a command.
` + "\n")
}
