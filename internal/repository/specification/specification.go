package specification

import "gorm.io/gorm"

// Specification is a composable query predicate. Specifications passed
// together to a repository method combine with logical AND.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
