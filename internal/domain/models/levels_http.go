package models

// Requests for detection HTTP endpoints. Defined in domain for consistency and reuse.

type LevelsRequest struct {
	Symbol      string  `query:"symbol" json:"symbol" validate:"required"`
	N           int     `query:"n" json:"n" default:"200" validate:"gte=1,lte=5000"`
	TF          string  `query:"tf" json:"tf" default:"1h" validate:"oneof=1m 5m 1h 1d"`
	Sensitivity float64 `query:"sensitivity" json:"sensitivity" default:"0.02" validate:"gt=0,lte=0.2"`
}

type OrderBlocksRequest struct {
	Symbol   string `query:"symbol" json:"symbol" validate:"required"`
	Lookback int    `query:"lookback" json:"lookback" default:"50" validate:"gte=5,lte=1000"`
	TF       string `query:"tf" json:"tf" default:"1h" validate:"oneof=1m 5m 1h 1d"`
}

type PivotsRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	Method string `query:"method" json:"method" default:"standard" validate:"oneof=standard fibonacci camarilla"`
	TF     string `query:"tf" json:"tf" default:"1h" validate:"oneof=1m 5m 1h 1d"`
}
