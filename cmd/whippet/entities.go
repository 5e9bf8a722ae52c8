package main

import (
	"context"
	"slices"

	"github.com/ahardinathillc/whippet-sub000/internal/application/transfer"
	"github.com/ahardinathillc/whippet-sub000/internal/domain/legacy"
	"github.com/ahardinathillc/whippet-sub000/internal/mapping"
	"github.com/ahardinathillc/whippet-sub000/internal/marshal"
)

// entityCommands erases the entity type so the CLI can dispatch on a name.
type entityCommands struct {
	directory func(o *mapping.Overrides) (*mapping.Directory, error)
	schema    func(dir *mapping.Directory) (*marshal.TableSchema, error)
	transfer  func(ctx context.Context, source transfer.Source, sink transfer.Sink, opts ...transfer.Option) (*transfer.Report, error)
}

func commandsFor[E any](table *marshal.Table[E]) entityCommands {
	return entityCommands{
		directory: func(o *mapping.Overrides) (*mapping.Directory, error) {
			return o.Apply(table.Directory())
		},
		schema: table.DeriveSchema,
		transfer: func(ctx context.Context, source transfer.Source, sink transfer.Sink, opts ...transfer.Option) (*transfer.Report, error) {
			return transfer.NewPipeline(table, source, sink, opts...).Run(ctx)
		},
	}
}

var catalog = map[string]entityCommands{
	"country":    commandsFor(legacy.CountryTable),
	"warehouse":  commandsFor(legacy.WarehouseTable),
	"county":     commandsFor(legacy.CountyTable),
	"customer":   commandsFor(legacy.CustomerTable),
	"order":      commandsFor(legacy.OrderTable),
	"order-line": commandsFor(legacy.OrderLineTable),
	"stock-item": commandsFor(legacy.StockItemTable),
}

// entityNames lists the catalog in dependency order, referenced entities
// first.
var entityNames = []string{"country", "warehouse", "county", "customer", "stock-item", "order", "order-line"}

func knownEntity(name string) bool {
	return slices.Contains(entityNames, name)
}
