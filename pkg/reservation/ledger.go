package reservation

import (
	"sync"
	"time"

	"github.com/limaJavier/roomscheduler/pkg/model"
)

// Ledger stores reservations. Resolving locks only the resolved record
type Ledger interface {
	Insert(reservation model.Reservation)
	Get(id string) (model.Reservation, error)
	// Resolve moves a PENDING reservation to status, a resolved one is left untouched and ErrAlreadyResolved is returned
	Resolve(id string, status model.ReservationStatus, at time.Time) (model.Reservation, error)
	List(keep func(reservation model.Reservation) bool) []model.Reservation
}

type record struct {
	mutex       sync.Mutex
	reservation model.Reservation
}

type memoryLedger struct {
	mutex   sync.RWMutex // Guards records and order, not the records' content
	records map[string]*record
	order   []string
}

func NewMemoryLedger() Ledger {
	return &memoryLedger{records: make(map[string]*record)}
}

func (ledger *memoryLedger) Insert(reservation model.Reservation) {
	ledger.mutex.Lock()
	defer ledger.mutex.Unlock()

	if _, ok := ledger.records[reservation.Id]; !ok {
		ledger.order = append(ledger.order, reservation.Id)
	}
	ledger.records[reservation.Id] = &record{reservation: reservation}
}

func (ledger *memoryLedger) Get(id string) (model.Reservation, error) {
	record, err := ledger.record(id)
	if err != nil {
		return model.Reservation{}, err
	}

	record.mutex.Lock()
	defer record.mutex.Unlock()
	return record.reservation, nil
}

func (ledger *memoryLedger) Resolve(id string, status model.ReservationStatus, at time.Time) (model.Reservation, error) {
	record, err := ledger.record(id)
	if err != nil {
		return model.Reservation{}, err
	}

	record.mutex.Lock()
	defer record.mutex.Unlock()

	if record.reservation.Status != model.Pending {
		return record.reservation, ErrAlreadyResolved
	}
	record.reservation.Status = status
	record.reservation.ResolvedAt = at
	return record.reservation, nil
}

func (ledger *memoryLedger) List(keep func(reservation model.Reservation) bool) []model.Reservation {
	ledger.mutex.RLock()
	records := make([]*record, 0, len(ledger.order))
	for _, id := range ledger.order {
		records = append(records, ledger.records[id])
	}
	ledger.mutex.RUnlock()

	reservations := make([]model.Reservation, 0, len(records))
	for _, record := range records {
		record.mutex.Lock()
		reservation := record.reservation
		record.mutex.Unlock()

		if keep == nil || keep(reservation) {
			reservations = append(reservations, reservation)
		}
	}
	return reservations
}

func (ledger *memoryLedger) record(id string) (*record, error) {
	ledger.mutex.RLock()
	defer ledger.mutex.RUnlock()

	record, ok := ledger.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return record, nil
}
