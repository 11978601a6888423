package tablequery

// Built-in member indexes for the table families this service is queried
// for most. The portal's coordinate system is per-table, so each family
// hardcodes the dimension order and member ids its metadata defines; any
// other productId goes through FromMetadata with live WDS metadata.

// Standard geography members shared by the national monthly tables.
var standardGeography = []Member{
	{1, "Canada"},
	{2, "Newfoundland and Labrador"},
	{3, "Prince Edward Island"},
	{4, "Nova Scotia"},
	{5, "New Brunswick"},
	{6, "Quebec"},
	{7, "Ontario"},
	{8, "Manitoba"},
	{9, "Saskatchewan"},
	{10, "Alberta"},
	{11, "British Columbia"},
	{12, "Yukon"},
	{13, "Northwest Territories"},
	{14, "Nunavut"},
}

var builtin = buildRegistry()

func buildRegistry() map[int]*MemberIndex {
	tables := []*MemberIndex{
		NewMemberIndex(34100292, "Investment in building construction", []Dimension{
			{Name: "Geography", Members: standardGeography},
			{Name: "Type of structure", Members: []Member{
				{1, "Total residential and non-residential"},
				{2, "Residential"},
				{3, "Non-residential"},
			}},
			{Name: "Type of work", Members: []Member{
				{1, "Total work types"},
				{2, "New construction"},
				{3, "Renovations"},
			}},
			{Name: "Seasonal adjustment", Members: []Member{
				{1, "Seasonally adjusted"},
				{2, "Unadjusted"},
			}},
		}),

		NewMemberIndex(18100004, "Consumer Price Index, monthly, not seasonally adjusted", []Dimension{
			{Name: "Geography", Members: standardGeography},
			{Name: "Products and product groups", Members: []Member{
				{1, "All-items"},
				{2, "Food"},
				{3, "Shelter"},
				{4, "Household operations, furnishings and equipment"},
				{5, "Clothing and footwear"},
				{6, "Transportation"},
				{7, "Health and personal care"},
				{8, "Recreation, education and reading"},
				{9, "Alcoholic beverages, tobacco products and recreational cannabis"},
				{10, "All-items excluding food and energy"},
				{11, "Energy"},
				{12, "Goods"},
				{13, "Services"},
			}},
		}),

		NewMemberIndex(14100287, "Labour force characteristics, monthly, seasonally adjusted", []Dimension{
			// No territories in this family.
			{Name: "Geography", Members: standardGeography[:11]},
			{Name: "Labour force characteristics", Members: []Member{
				{1, "Population"},
				{2, "Labour force"},
				{3, "Employment"},
				{4, "Full-time employment"},
				{5, "Part-time employment"},
				{6, "Unemployment"},
				{7, "Unemployment rate"},
				{8, "Participation rate"},
				{9, "Employment rate"},
			}},
			{Name: "Data type", Members: []Member{
				{1, "Seasonally adjusted"},
				{2, "Trend-cycle"},
				{3, "Unadjusted"},
			}},
			{Name: "Gender", Members: []Member{
				{1, "Total - Gender"},
				{2, "Men+"},
				{3, "Women+"},
			}},
			{Name: "Age group", Members: []Member{
				{1, "15 years and over"},
				{2, "15 to 24 years"},
				{3, "25 to 54 years"},
				{4, "55 years and over"},
			}},
			{Name: "Statistics", Members: []Member{
				{1, "Estimate"},
				{2, "Standard error of estimate"},
				{3, "Standard error of month-to-month change"},
				{4, "Standard error of year-over-year change"},
			}},
		}),
	}

	registry := make(map[int]*MemberIndex, len(tables))
	for _, t := range tables {
		registry[t.ProductID] = t
	}
	return registry
}

// Lookup returns the built-in member index for a productId, if one exists.
func Lookup(productID int) (*MemberIndex, bool) {
	idx, ok := builtin[productID]
	return idx, ok
}

// RegisteredTables lists the productIds present in the built-in registry.
func RegisteredTables() []int {
	ids := make([]int, 0, len(builtin))
	for id := range builtin {
		ids = append(ids, id)
	}
	return ids
}
