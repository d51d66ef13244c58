package main

// Import a recipe dataset from the object store:
//   go run ./cmd/importer -dataset datasets/recipes.json -report

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"mealplanner/internal/bootstrap"
	"mealplanner/internal/recipes"
	"mealplanner/internal/shared/config"
	"mealplanner/internal/shared/storage/object"
	"mealplanner/internal/shared/util"
)

type recipeCreator interface {
	CreateRecipes(ctx context.Context, inputs []recipes.RecipeInput) ([]recipes.RecipeResult, error)
}

type catalogLoader interface {
	Reload(ctx context.Context) error
}

type importReport struct {
	RunID      string    `json:"runId"`
	Dataset    string    `json:"dataset"`
	Imported   int       `json:"imported"`
	FirstID    int       `json:"firstId,omitempty"`
	LastID     int       `json:"lastId,omitempty"`
	FinishedAt time.Time `json:"finishedAt"`
}

func main() {
	dataset := flag.String("dataset", "", "Object store key of a JSON array of recipes")
	writeReport := flag.Bool("report", false, "Write an import report next to the dataset")
	flag.Parse()

	if strings.TrimSpace(*dataset) == "" {
		exitErr("dataset key is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	app, err := bootstrap.BuildImporter(ctx, cfg)
	if err != nil {
		exitErr(fmt.Sprintf("bootstrap: %v", err))
	}
	defer app.Close()
	if app.DB == nil {
		log.Printf("importer: no database configured; recipes will not persist")
	}

	report, err := runImport(ctx, app.Store, app.Catalog, app.RecipesService, *dataset)
	if err != nil {
		exitErr(err.Error())
	}
	log.Printf("imported %d recipes from %s", report.Imported, *dataset)

	if *writeReport {
		key, err := writeImportReport(ctx, app.Store, report)
		if err != nil {
			exitErr(err.Error())
		}
		log.Printf("report written to %s", key)
	}
}

// runImport loads the existing catalog first so the new recipes are scaled
// against every stored recipe, not only the batch.
func runImport(ctx context.Context, store object.ObjectStore, catalog catalogLoader, creator recipeCreator, key string) (importReport, error) {
	if err := catalog.Reload(ctx); err != nil {
		return importReport{}, fmt.Errorf("load catalog: %w", err)
	}

	rc, err := store.Open(ctx, key)
	if err != nil {
		return importReport{}, fmt.Errorf("open dataset: %w", err)
	}
	defer rc.Close()

	inputs, err := decodeDataset(rc)
	if err != nil {
		return importReport{}, err
	}

	created, err := creator.CreateRecipes(ctx, inputs)
	if err != nil {
		return importReport{}, fmt.Errorf("create recipes: %w", err)
	}

	report := importReport{
		RunID:      uuid.NewString(),
		Dataset:    key,
		Imported:   len(created),
		FinishedAt: time.Now().UTC(),
	}
	if len(created) > 0 {
		report.FirstID = created[0].RecipeID
		report.LastID = created[len(created)-1].RecipeID
	}
	return report, nil
}

func decodeDataset(r io.Reader) ([]recipes.RecipeInput, error) {
	var inputs []recipes.RecipeInput
	if err := json.NewDecoder(r).Decode(&inputs); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("dataset is empty")
	}
	return inputs, nil
}

func writeImportReport(ctx context.Context, store object.ObjectStore, report importReport) (string, error) {
	name, err := util.SanitizeFileName(report.Dataset)
	if err != nil {
		return "", fmt.Errorf("report name: %w", err)
	}
	key := "reports/" + report.RunID + "-" + name + ".report.json"

	body, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}
	if _, err := store.Put(ctx, key, "application/json", bytes.NewReader(body)); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return key, nil
}

func exitErr(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
