package types

// TenantFilter represents filters for the admin tenant listing
type TenantFilter struct {
	*QueryFilter

	TenantIDs []string `json:"tenant_ids,omitempty" form:"tenant_ids"`
	Search    string   `json:"search,omitempty" form:"search"`
	Locked    *bool    `json:"locked,omitempty" form:"locked"`
	Suspended *bool    `json:"suspended,omitempty" form:"suspended"`
}

func NewTenantFilter() *TenantFilter {
	return &TenantFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

func NewNoLimitTenantFilter() *TenantFilter {
	return &TenantFilter{
		QueryFilter: NewNoLimitQueryFilter(),
	}
}

func (f TenantFilter) Validate() error {
	if f.QueryFilter != nil {
		return f.QueryFilter.Validate()
	}
	return nil
}

func (f *TenantFilter) GetLimit() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetLimit()
	}
	return f.QueryFilter.GetLimit()
}

func (f *TenantFilter) GetOffset() int {
	if f.QueryFilter == nil {
		return 0
	}
	return f.QueryFilter.GetOffset()
}

func (f *TenantFilter) GetSort() string {
	if f.QueryFilter == nil {
		return FILTER_DEFAULT_SORT
	}
	return f.QueryFilter.GetSort()
}

func (f *TenantFilter) GetOrder() string {
	if f.QueryFilter == nil {
		return FILTER_DEFAULT_ORDER
	}
	return f.QueryFilter.GetOrder()
}

func (f *TenantFilter) GetStatus() string {
	if f.QueryFilter == nil {
		return string(StatusPublished)
	}
	return f.QueryFilter.GetStatus()
}

func (f *TenantFilter) IsUnlimited() bool {
	if f.QueryFilter == nil {
		return false
	}
	return f.QueryFilter.IsUnlimited()
}
