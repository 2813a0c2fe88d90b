package data

import (
	_ "embed"
)

//go:embed guidance/volatile.md
var GuidanceVolatile string

//go:embed guidance/imbalanced.md
var GuidanceImbalanced string

//go:embed guidance/struggling.md
var GuidanceStruggling string

//go:embed guidance/mastery.md
var GuidanceMastery string
