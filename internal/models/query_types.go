// internal/models/query_types.go
package models

// QueryType labels store and index operations in errors, logs and metrics.
type QueryType string

const (
	QueryTypeSaveProfile       QueryType = "save_profile"
	QueryTypeUserProfiles      QueryType = "user_profiles"
	QueryTypeCountProfiles     QueryType = "count_profiles"
	QueryTypeIndexProfile      QueryType = "index_profile"
	QueryTypeStyleDistribution QueryType = "style_distribution"
)
