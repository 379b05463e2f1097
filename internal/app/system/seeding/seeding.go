// internal/app/system/seeding/seeding.go
package seeding

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/dalemusser/stratasite/internal/app/store/docstore"
	"github.com/dalemusser/stratasite/internal/app/system/auth"
	"github.com/dalemusser/stratasite/internal/domain/models"
)

// SeedDemoTenant creates a demo tenant with settings and a home page if
// it does not exist yet. Used in development so a fresh database serves
// something immediately. Existing data is never touched.
func SeedDemoTenant(ctx context.Context, docs docstore.Store, tenantID, adminPassword string, logger *zap.Logger) error {
	if tenantID == "" {
		return nil
	}

	_, err := docs.GetDocument(ctx, docstore.Path(tenantID, docstore.CollSettings), docstore.SettingsDocID)
	if err == nil {
		return nil // already seeded
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		return err
	}

	hash := ""
	if adminPassword != "" {
		if hash, err = auth.HashPassword(adminPassword); err != nil {
			return err
		}
	}

	settings := models.PublicSettings{
		Name:    "Sitio de demostración",
		Tagline: "Contenido de ejemplo",
		Theme: map[string]string{
			"--color-primary": models.DefaultPrimaryColor,
		},
		AdminPasswordHash: hash,
	}
	doc, err := docstore.Encode(settings)
	if err != nil {
		return err
	}
	if err := docs.SetDocument(ctx, docstore.Path(tenantID, docstore.CollSettings), docstore.SettingsDocID, doc, false); err != nil {
		return err
	}

	home := models.Page{
		Slug:   models.HomeSlug,
		Status: models.PageStatusPublished,
		Meta:   models.PageMeta{Title: "Inicio", Description: "Sitio de demostración"},
		Blocks: []models.Block{
			{ID: "demo-hero", Type: "hero", Props: map[string]any{
				"title":    "Bienvenidos",
				"subtitle": "Este es un sitio de demostración.",
			}},
			{ID: "demo-text", Type: "richText", Props: map[string]any{
				"content": "<p>Editá esta página desde el panel de administración.</p>",
			}},
		},
	}
	doc, err = docstore.Encode(home)
	if err != nil {
		return err
	}
	if err := docs.SetDocument(ctx, docstore.Path(tenantID, docstore.CollPages), home.Slug, doc, false); err != nil {
		return err
	}

	logger.Info("seeded demo tenant", zap.String("tenant", tenantID))
	return nil
}
