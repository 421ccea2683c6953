package response

type DigestResponse struct {
	TopServices []ServiceResponse `json:"topServices"`
	TopEvents   []EventResponse   `json:"topEvents"`
	Insights    []string          `json:"insights"`
	Suggestions []string          `json:"suggestions"`
}
