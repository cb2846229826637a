package entity

import (
	"herbalog/internal/entity/common"
)

// Type aliases for common types
type JSONMap = common.JSONMap
