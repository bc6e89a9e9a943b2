package menu

import (
	"context"
	"fmt"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/seed"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultScopeID identifies the demo restaurant scope used by seeds and local
// development.
var DefaultScopeID = uuid.MustParse("7f1b2a40-3c8e-4b5d-9f6a-2d1e8c4b0a73")

// Category ids for the product references in the sample pool.
var (
	categoryEntradas       = uuid.MustParse("c1a5e0d2-1111-4a2b-8c3d-0e4f5a6b7c8d")
	categoryPrincipios     = uuid.MustParse("c1a5e0d2-2222-4a2b-8c3d-0e4f5a6b7c8d")
	categoryProteinas      = uuid.MustParse("c1a5e0d2-3333-4a2b-8c3d-0e4f5a6b7c8d")
	categoryBebidas        = uuid.MustParse("c1a5e0d2-4444-4a2b-8c3d-0e4f5a6b7c8d")
	categoryAcompanamiento = uuid.MustParse("c1a5e0d2-5555-4a2b-8c3d-0e4f5a6b7c8d")
)

// Seeds returns all seeds for the programming service
func Seeds(db *mongo.Database) []seed.Seed {
	return []seed.Seed{
		{
			ID:          "2026-08-20_sample_combinations",
			Description: "Seed a representative combination pool for the demo scope",
			Run: func(ctx context.Context) error {
				return seedSampleCombinations(ctx, db)
			},
		},
	}
}

func ref(id, name, description string, price float64, category uuid.UUID) *ProductRef {
	return &ProductRef{
		ID:          uuid.MustParse(id),
		Name:        name,
		Description: description,
		UnitPrice:   price,
		CategoryID:  category,
	}
}

// seedSampleCombinations loads daily-menu combinations into the demo scope's
// available pool.
func seedSampleCombinations(ctx context.Context, db *mongo.Database) error {
	collection := db.Collection("combinations")

	combos := []Combination{
		{
			ID:            uuid.MustParse("a0e1b2c3-0001-4d5e-8f90-1a2b3c4d5e6f"),
			Name:          "Bandeja del Día",
			Description:   "Frijoles, arroz, carne molida y maduro",
			Entrada:       ref("b0e1b2c3-0001-4d5e-8f90-1a2b3c4d5e6f", "Sopa de Guineo", "Sopa tradicional con guineo verde", 3500, categoryEntradas),
			Principio:     ref("b0e1b2c3-0002-4d5e-8f90-1a2b3c4d5e6f", "Frijoles", "Frijoles rojos con tocino", 5000, categoryPrincipios),
			Proteina:      ref("b0e1b2c3-0003-4d5e-8f90-1a2b3c4d5e6f", "Carne Molida", "Carne de res molida guisada", 7000, categoryProteinas),
			Bebida:        ref("b0e1b2c3-0004-4d5e-8f90-1a2b3c4d5e6f", "Jugo de Mora", "Jugo natural en agua", 2500, categoryBebidas),
			Acompanamiento: []ProductRef{
				*ref("b0e1b2c3-0005-4d5e-8f90-1a2b3c4d5e6f", "Arroz Blanco", "", 1500, categoryAcompanamiento),
				*ref("b0e1b2c3-0006-4d5e-8f90-1a2b3c4d5e6f", "Maduro", "Tajadas de plátano maduro", 1800, categoryAcompanamiento),
			},
		},
		{
			ID:          uuid.MustParse("a0e1b2c3-0002-4d5e-8f90-1a2b3c4d5e6f"),
			Name:        "Pechuga a la Plancha",
			Description: "Pechuga con lentejas y ensalada",
			Entrada:     ref("b0e1b2c3-0011-4d5e-8f90-1a2b3c4d5e6f", "Crema de Auyama", "", 3800, categoryEntradas),
			Principio:   ref("b0e1b2c3-0012-4d5e-8f90-1a2b3c4d5e6f", "Lentejas", "Lentejas guisadas", 4800, categoryPrincipios),
			Proteina:    ref("b0e1b2c3-0013-4d5e-8f90-1a2b3c4d5e6f", "Pechuga a la Plancha", "Pechuga de pollo a la plancha", 8000, categoryProteinas),
			Bebida:      ref("b0e1b2c3-0014-4d5e-8f90-1a2b3c4d5e6f", "Limonada", "Limonada natural", 2500, categoryBebidas),
			Acompanamiento: []ProductRef{
				*ref("b0e1b2c3-0015-4d5e-8f90-1a2b3c4d5e6f", "Ensalada Fresca", "Lechuga, tomate y cebolla", 2000, categoryAcompanamiento),
			},
		},
		{
			ID:          uuid.MustParse("a0e1b2c3-0003-4d5e-8f90-1a2b3c4d5e6f"),
			Name:        "Mojarra Frita",
			Description: "Mojarra con patacones y arroz con coco",
			Proteina:    ref("b0e1b2c3-0023-4d5e-8f90-1a2b3c4d5e6f", "Mojarra Frita", "Mojarra roja frita entera", 14000, categoryProteinas),
			Bebida:      ref("b0e1b2c3-0024-4d5e-8f90-1a2b3c4d5e6f", "Agua de Panela", "Con limón", 2000, categoryBebidas),
			Acompanamiento: []ProductRef{
				*ref("b0e1b2c3-0025-4d5e-8f90-1a2b3c4d5e6f", "Patacones", "", 2500, categoryAcompanamiento),
				*ref("b0e1b2c3-0026-4d5e-8f90-1a2b3c4d5e6f", "Arroz con Coco", "", 3000, categoryAcompanamiento),
			},
			Favorite: true,
		},
		{
			ID:          uuid.MustParse("a0e1b2c3-0004-4d5e-8f90-1a2b3c4d5e6f"),
			Name:        "Cerdo en Salsa Criolla",
			Description: "Lomo de cerdo con papa salada",
			Entrada:     ref("b0e1b2c3-0031-4d5e-8f90-1a2b3c4d5e6f", "Sopa de Verduras", "", 3500, categoryEntradas),
			Principio:   ref("b0e1b2c3-0032-4d5e-8f90-1a2b3c4d5e6f", "Arveja Verde", "Arveja guisada con zanahoria", 4500, categoryPrincipios),
			Proteina:    ref("b0e1b2c3-0033-4d5e-8f90-1a2b3c4d5e6f", "Cerdo en Salsa", "Lomo de cerdo en salsa criolla", 7500, categoryProteinas),
			Bebida:      ref("b0e1b2c3-0034-4d5e-8f90-1a2b3c4d5e6f", "Jugo de Lulo", "Jugo natural en agua", 2500, categoryBebidas),
			Acompanamiento: []ProductRef{
				*ref("b0e1b2c3-0035-4d5e-8f90-1a2b3c4d5e6f", "Papa Salada", "", 1800, categoryAcompanamiento),
			},
		},
		{
			ID:           uuid.MustParse("a0e1b2c3-0005-4d5e-8f90-1a2b3c4d5e6f"),
			Name:         "Ejecutivo Especial",
			Description:  "Churrasco con chimichurri, precio de lanzamiento",
			Proteina:     ref("b0e1b2c3-0043-4d5e-8f90-1a2b3c4d5e6f", "Churrasco", "Churrasco 250g con chimichurri", 16000, categoryProteinas),
			Bebida:       ref("b0e1b2c3-0044-4d5e-8f90-1a2b3c4d5e6f", "Gaseosa", "", 3000, categoryBebidas),
			SpecialPrice: floatPtr(15500),
			Special:      true,
			Acompanamiento: []ProductRef{
				*ref("b0e1b2c3-0045-4d5e-8f90-1a2b3c4d5e6f", "Papas a la Francesa", "", 3500, categoryAcompanamiento),
			},
		},
		{
			ID:          uuid.MustParse("a0e1b2c3-0006-4d5e-8f90-1a2b3c4d5e6f"),
			Name:        "Menú Vegetariano",
			Description: "Proteína de soya con principio del día",
			Principio:   ref("b0e1b2c3-0052-4d5e-8f90-1a2b3c4d5e6f", "Garbanzos", "Garbanzos guisados", 4800, categoryPrincipios),
			Proteina:    ref("b0e1b2c3-0053-4d5e-8f90-1a2b3c4d5e6f", "Proteína de Soya", "Soya texturizada en salsa de tomate", 6000, categoryProteinas),
			Bebida:      ref("b0e1b2c3-0054-4d5e-8f90-1a2b3c4d5e6f", "Jugo de Mango", "Jugo natural en agua", 2500, categoryBebidas),
			Acompanamiento: []ProductRef{
				*ref("b0e1b2c3-0055-4d5e-8f90-1a2b3c4d5e6f", "Arroz Integral", "", 1800, categoryAcompanamiento),
			},
		},
	}

	for i := range combos {
		combo := &combos[i]
		combo.Normalize()
		_, err := collection.UpdateOne(ctx,
			bson.M{"scope_id": DefaultScopeID, "combination._id": combo.ID},
			bson.M{"$set": bson.M{
				"scope_id":    DefaultScopeID,
				"combination": combo,
			}},
			options.Update().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("seed combination %s: %w", combo.Name, err)
		}
	}

	return nil
}

func floatPtr(v float64) *float64 {
	return &v
}

// SeedingFunc returns a lifecycle hook that applies pending seeds on startup
func SeedingFunc(appName string, dbFn func() *mongo.Database, logger apt.Logger) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		logger.Info("Applying programming service database seeds...")
		db := dbFn()
		tracker := seed.NewMongoTracker(db)
		seeds := Seeds(db)
		if err := seed.Apply(ctx, tracker, seeds, appName); err != nil {
			return fmt.Errorf("apply seeds: %w", err)
		}
		logger.Info("Programming service database seeds applied successfully")
		return nil
	}
}
