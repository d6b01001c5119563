package optionmodels

type CsvCloseDTO struct {
	Timestamp string  `csv:"time"`
	Close     float64 `csv:"close"`
}
