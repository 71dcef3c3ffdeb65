package models

import "time"

// QueryOptimization is an append-only telemetry record written per monitored
// request. QueryParams holds the raw query parameters as a JSON object.
type QueryOptimization struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	Endpoint      string  `gorm:"size:200;index:idx_qo_endpoint_created" json:"endpoint"`
	Method        string  `gorm:"size:10" json:"method"`
	QueryParams   string  `gorm:"type:text" json:"query_params"`
	ExecutionTime float64 `gorm:"index" json:"execution_time"`
	ResultCount   uint    `gorm:"default:0" json:"result_count"`
	CacheHit      bool    `gorm:"index;default:false" json:"cache_hit"`

	CPUUsage       float64 `gorm:"default:0" json:"cpu_usage"`
	MemoryUsage    float64 `gorm:"default:0" json:"memory_usage"`
	DBQueriesCount uint    `gorm:"default:0" json:"db_queries_count"`

	CreatedAt time.Time `gorm:"index:idx_qo_endpoint_created" json:"created_at"`
}
