package logging

// Standardized field names for structured logging.
const (
	FieldFile        = "file_path"
	FieldLine        = "line"
	FieldRow         = "row"
	FieldField       = "field"
	FieldValue       = "value"
	FieldReason      = "reason"
	FieldCategory    = "category"
	FieldOperation   = "operation"
	FieldCount       = "count"
	FieldTotal       = "total"
	FieldYear        = "year"
	FieldInputFile   = "input_file"
	FieldOutputFile  = "output_file"
	FieldWorkStart   = "work_start"
	FieldWorkEnd     = "work_end"
	FieldTransponder = "transponder"
)
