package types

// ItemFilter represents filters for inventory item queries
type ItemFilter struct {
	*QueryFilter

	ItemIDs []string `json:"item_ids,omitempty" form:"item_ids"`
	// Search matches name, item code or part number, case insensitive
	Search   string `json:"search,omitempty" form:"search"`
	HSNCode  string `json:"hsn_code,omitempty" form:"hsn_code"`
	LowStock bool   `json:"low_stock,omitempty" form:"low_stock"`
}

// LowStockThreshold is the stock level at or below which an item counts as low
const LowStockThreshold = 5

func NewItemFilter() *ItemFilter {
	return &ItemFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

func NewNoLimitItemFilter() *ItemFilter {
	return &ItemFilter{
		QueryFilter: NewNoLimitQueryFilter(),
	}
}

func (f ItemFilter) Validate() error {
	if f.QueryFilter != nil {
		return f.QueryFilter.Validate()
	}
	return nil
}

func (f *ItemFilter) GetLimit() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetLimit()
	}
	return f.QueryFilter.GetLimit()
}

func (f *ItemFilter) GetOffset() int {
	if f.QueryFilter == nil {
		return 0
	}
	return f.QueryFilter.GetOffset()
}

func (f *ItemFilter) GetSort() string {
	if f.QueryFilter == nil {
		return FILTER_DEFAULT_SORT
	}
	return f.QueryFilter.GetSort()
}

func (f *ItemFilter) GetOrder() string {
	if f.QueryFilter == nil {
		return FILTER_DEFAULT_ORDER
	}
	return f.QueryFilter.GetOrder()
}

func (f *ItemFilter) GetStatus() string {
	if f.QueryFilter == nil {
		return string(StatusPublished)
	}
	return f.QueryFilter.GetStatus()
}

func (f *ItemFilter) IsUnlimited() bool {
	if f.QueryFilter == nil {
		return false
	}
	return f.QueryFilter.IsUnlimited()
}
