// Command seed-taxonomy loads the three-level theme tree from a YAML file
// into the taxonomy_nodes table. Inserts use ON CONFLICT DO NOTHING, so
// re-running against an already seeded database is safe.
//
// The YAML format mirrors the tree:
//
//	themes:
//	  - name: 日常生活
//	    children:
//	      - name: 飲食
//	        children:
//	          - name: 點心
//
// Flags:
//
//	--file  path to the taxonomy YAML file (default: taxonomy.yaml)
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/jyutlore/jyutlore-backend/internal/adapter/postgres"
	taxonomypg "github.com/jyutlore/jyutlore-backend/internal/adapter/postgres/taxonomy"
	"github.com/jyutlore/jyutlore-backend/internal/app"
	"github.com/jyutlore/jyutlore-backend/internal/config"
	"github.com/jyutlore/jyutlore-backend/internal/domain"
)

type themeNode struct {
	Name     string      `yaml:"name"`
	Children []themeNode `yaml:"children"`
}

type themeFile struct {
	Themes []themeNode `yaml:"themes"`
}

func main() {
	fileFlag := flag.String("file", "taxonomy.yaml", "path to the taxonomy YAML file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg.Log)

	tree, err := loadTree(*fileFlag)
	if err != nil {
		logger.Error("load taxonomy file", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	repo := taxonomypg.New(pool)

	created := 0
	for _, root := range tree.Themes {
		n, err := seedNode(ctx, repo, root, domain.TaxonomyLevelTop, nil)
		if err != nil {
			logger.Error("seed root node", slog.String("name", root.Name), slog.String("error", err.Error()))
			os.Exit(1)
		}
		created += n
	}

	logger.Info("taxonomy seeded", slog.Int("nodes", created), slog.String("file", *fileFlag))
}

func loadTree(path string) (*themeFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var tree themeFile
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(tree.Themes) == 0 {
		return nil, fmt.Errorf("%s contains no themes", path)
	}

	return &tree, nil
}

// seedNode inserts one node and recurses into its children. Returns the
// number of nodes written.
func seedNode(ctx context.Context, repo *taxonomypg.Repo, node themeNode, level int, parentID *uuid.UUID) (int, error) {
	name := strings.TrimSpace(node.Name)
	if name == "" {
		return 0, fmt.Errorf("level %d node has no name", level)
	}
	if level > domain.TaxonomyLevelLeaf {
		return 0, fmt.Errorf("node %q exceeds the three-level tree", name)
	}
	if level == domain.TaxonomyLevelLeaf && len(node.Children) > 0 {
		return 0, fmt.Errorf("leaf node %q has children", name)
	}

	n := &domain.TaxonomyNode{
		ID:       uuid.New(),
		Name:     name,
		Level:    level,
		ParentID: parentID,
		Active:   true,
	}
	if err := repo.Create(ctx, n); err != nil {
		return 0, fmt.Errorf("create node %q: %w", name, err)
	}

	// ON CONFLICT DO NOTHING keeps the existing row; children must hang off
	// the stored ID, not the freshly generated one.
	stored, err := repo.GetByName(ctx, name, level)
	if err != nil {
		return 0, fmt.Errorf("look up node %q: %w", name, err)
	}

	created := 1
	for _, child := range node.Children {
		n, err := seedNode(ctx, repo, child, level+1, &stored.ID)
		if err != nil {
			return created, err
		}
		created += n
	}

	return created, nil
}
