package i18n

// Shared table column labels.
const (
	ColumnURL   = "common.columnURL"
	ColumnError = "common.columnError"
)

func init() {
	Register(DefaultLocale, Messages{
		ColumnURL:   "URL",
		ColumnError: "Error",
	})
	Register("es", Messages{
		ColumnURL:   "URL",
		ColumnError: "Error",
	})
	Register("de", Messages{
		ColumnURL:   "URL",
		ColumnError: "Fehler",
	})
}
