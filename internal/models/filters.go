package models

// RSRPFilterForm represents the RSRP filter form posted by the dashboard
type RSRPFilterForm struct {
	MSISDN   string `form:"msisdn"`
	CellCode string `form:"cell_code"`

	// Text filters
	CellName string `form:"cell_name_filter"`
	SiteID   string `form:"site_id_filter"`
	SiteName string `form:"site_name_filter"`

	// Expression filters per bucket (e.g. ">=50", "10-20", "<5,>1")
	Range1Direct string `form:"rsrp_range1_direct"`
	Range2Direct string `form:"rsrp_range2_direct"`
	Range3Direct string `form:"rsrp_range3_direct"`
	Range4Direct string `form:"rsrp_range4_direct"`

	// Plain bounds per bucket
	Range1Min string `form:"rsrp_range1_min"`
	Range1Max string `form:"rsrp_range1_max"`
	Range2Min string `form:"rsrp_range2_min"`
	Range2Max string `form:"rsrp_range2_max"`
	Range3Min string `form:"rsrp_range3_min"`
	Range3Max string `form:"rsrp_range3_max"`
	Range4Min string `form:"rsrp_range4_min"`
	Range4Max string `form:"rsrp_range4_max"`

	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"` // asc, desc
}

// UserCountQuery represents the user-count report parameters
type UserCountQuery struct {
	Month    string `form:"month"`    // e.g. "March 2025", empty for all months
	District string `form:"district"` // district or site name
	Format   string `form:"format"`   // csv (default) or xlsx, downloads only
}
