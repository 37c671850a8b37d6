package schedule

import (
	"context"

	"github.com/limaJavier/roomscheduler/pkg/model"
)

// CatalogSource supplies the catalog, it is pulled fresh at the start of every generation run
type CatalogSource interface {
	Catalog(ctx context.Context) (*model.Catalog, error)
}

// ReservationSource supplies the approved reservations blocking rooms
type ReservationSource interface {
	Approved(ctx context.Context) ([]model.Reservation, error)
}

type staticCatalog struct {
	catalog *model.Catalog
}

func NewStaticCatalog(catalog *model.Catalog) CatalogSource {
	return &staticCatalog{catalog: catalog}
}

func (source *staticCatalog) Catalog(_ context.Context) (*model.Catalog, error) {
	return source.catalog, nil
}

type fileCatalog struct {
	path string
}

// NewFileCatalog re-reads the catalog at path (a JSON file or a CSV directory) on every run
func NewFileCatalog(path string) CatalogSource {
	return &fileCatalog{path: path}
}

func (source *fileCatalog) Catalog(_ context.Context) (*model.Catalog, error) {
	return model.InputFromPath(source.path)
}

type staticReservations []model.Reservation

func NewStaticReservations(reservations ...model.Reservation) ReservationSource {
	return staticReservations(reservations)
}

func (source staticReservations) Approved(_ context.Context) ([]model.Reservation, error) {
	return filterApproved(source), nil
}
