// internal/models/query_types.go
package models

// CatalogKind selects which catalog a recommendation or search targets.
type CatalogKind string

const (
	KindProperty  CatalogKind = "property"
	KindFurniture CatalogKind = "furniture"
)

type StatsPeriod string

const (
	PeriodDay   StatsPeriod = "day"
	PeriodWeek  StatsPeriod = "week"
	PeriodMonth StatsPeriod = "month"
	PeriodYear  StatsPeriod = "year"
)

func (p StatsPeriod) Valid() bool {
	switch p {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return true
	}
	return false
}
