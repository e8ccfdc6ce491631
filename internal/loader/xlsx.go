package loader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/piwi3910/nestcore/internal/geo"
	"github.com/piwi3910/nestcore/internal/part"
	"github.com/xuri/excelize/v2"
)

// columnMapping maps semantic column roles to their index in a row.
type columnMapping struct {
	Label, Width, Height, Quantity, Grain int
}

var headerAliases = map[string][]string{
	"label":    {"label", "name", "part", "part name", "description", "desc", "piece", "item"},
	"width":    {"width", "w", "length", "len", "x"},
	"height":   {"height", "h", "depth", "d", "y"},
	"quantity": {"quantity", "qty", "count", "num", "amount", "pcs", "pieces"},
	"grain":    {"grain", "grain direction", "direction", "grain dir", "orientation"},
}

func detectColumns(row []string) (columnMapping, bool) {
	mapping := columnMapping{Label: -1, Width: -1, Height: -1, Quantity: -1, Grain: -1}
	isHeader := false

	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				switch role {
				case "label":
					if mapping.Label == -1 {
						mapping.Label = i
					}
				case "width":
					if mapping.Width == -1 {
						mapping.Width = i
					}
				case "height":
					if mapping.Height == -1 {
						mapping.Height = i
					}
				case "quantity":
					if mapping.Quantity == -1 {
						mapping.Quantity = i
					}
				case "grain":
					if mapping.Grain == -1 {
						mapping.Grain = i
					}
				}
			}
		}
	}

	if !isHeader {
		return columnMapping{Label: 0, Width: 1, Height: 2, Quantity: 3, Grain: 4}, false
	}
	return mapping, true
}

func parseGrain(s string) (part.Grain, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "horizontal", "h":
		return part.GrainHorizontal, true
	case "vertical", "v":
		return part.GrainVertical, true
	case "", "none", "n", "-":
		return part.GrainNone, true
	default:
		return part.GrainNone, false
	}
}

func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// LoadXLSX reads the first sheet of a rectangular cut-list workbook,
// auto-detecting headers (or falling back to label/width/height/qty/grain
// column order) and producing one Template per row.
func LoadXLSX(path string) Result {
	var res Result

	f, err := excelize.OpenFile(path)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("cannot open XLSX file: %v", err))
		return res
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		res.Errors = append(res.Errors, "XLSX file has no sheets")
		return res
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("cannot read XLSX data: %v", err))
		return res
	}
	if len(rows) == 0 {
		res.Errors = append(res.Errors, "sheet is empty")
		return res
	}

	mapping, hasHeader := detectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		missing := missingColumns(mapping)
		if len(missing) > 0 {
			res.Errors = append(res.Errors, fmt.Sprintf("required columns not found in header: %s", strings.Join(missing, ", ")))
			return res
		}
	}

	nextID := 1
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}
		rowLabel := fmt.Sprintf("row %d", i+1)

		tpl, errMsg, warning := parseRow(row, mapping, rowLabel, nextID)
		if errMsg != "" {
			res.Errors = append(res.Errors, errMsg)
			continue
		}
		if warning != "" {
			res.Warnings = append(res.Warnings, warning)
		}
		res.Templates = append(res.Templates, tpl)
		nextID++
	}

	return res
}

func missingColumns(m columnMapping) []string {
	var missing []string
	if m.Width == -1 {
		missing = append(missing, "Width")
	}
	if m.Height == -1 {
		missing = append(missing, "Height")
	}
	if m.Quantity == -1 {
		missing = append(missing, "Quantity")
	}
	return missing
}

func parseRow(row []string, mapping columnMapping, rowLabel string, id int) (part.Template, string, string) {
	label := getCell(row, mapping.Label)
	if label == "" {
		label = fmt.Sprintf("Part %d", id)
	}

	widthStr := getCell(row, mapping.Width)
	width, err := strconv.ParseFloat(widthStr, 64)
	if widthStr == "" || err != nil {
		return part.Template{}, fmt.Sprintf("%s: invalid or missing width %q", rowLabel, widthStr), ""
	}

	heightStr := getCell(row, mapping.Height)
	height, err := strconv.ParseFloat(heightStr, 64)
	if heightStr == "" || err != nil {
		return part.Template{}, fmt.Sprintf("%s: invalid or missing height %q", rowLabel, heightStr), ""
	}

	qtyStr := getCell(row, mapping.Quantity)
	qty, err := strconv.Atoi(qtyStr)
	if qtyStr == "" || err != nil {
		return part.Template{}, fmt.Sprintf("%s: invalid or missing quantity %q", rowLabel, qtyStr), ""
	}

	if width <= 0 || height <= 0 || qty <= 0 {
		return part.Template{}, fmt.Sprintf("%s: width, height, and quantity must be positive", rowLabel), ""
	}

	tpl := part.Template{
		ID:   id,
		Name: label,
		Shape: geo.Polygon{Verts: []geo.Point{
			{X: 0, Y: 0}, {X: width, Y: 0}, {X: width, Y: height}, {X: 0, Y: height},
		}},
		RequiredCount: qty,
	}

	var warning string
	if grainStr := getCell(row, mapping.Grain); grainStr != "" {
		if grain, ok := parseGrain(grainStr); ok {
			tpl.Grain = grain
		} else {
			warning = fmt.Sprintf("%s: unknown grain direction %q, defaulting to none", rowLabel, grainStr)
		}
	}

	return tpl, "", warning
}
