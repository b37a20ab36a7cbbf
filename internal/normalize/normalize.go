// Package normalize implements the Input Normalizer (spec §4.1): it
// lowercases and validates the three raw tables, coerces types, and drops
// rows that fail coercion.
package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/salsa-engine/salsa/internal/model"
	"github.com/salsa-engine/salsa/internal/salsaerr"
)

var requiredColumns = map[string][]string{
	"colaborador": {"matricula", "c2d", "data_admissao", "data_demissao", "l_dom_salsa"},
	"calendario":  {"colaborador", "data", "wd", "dia_tipo", "tipo_turno", "ww"},
	"estimativas": {"data", "turno", "media_turno", "max_turno", "min_turno", "pess_obj", "sd_turno", "fk_tipo_posto", "wday"},
}

const dateLayout = "2006-01-02"

// Normalize validates raw.Calendario/Estimativas/Colaborador against the
// required columns, lowercases columns, coerces types, and drops rows that
// fail coercion. It never mutates raw.
func Normalize(raw model.RawInput) (*model.NormalizedInput, []model.Warning, error) {
	tables := map[string]*model.Table{
		"calendario":  &raw.Calendario,
		"estimativas": &raw.Estimativas,
		"colaborador": &raw.Colaborador,
	}
	for name, t := range tables {
		if t == nil || (len(t.Columns) == 0 && len(t.Rows) == 0) {
			return nil, nil, salsaerr.MissingTable(name)
		}
	}

	lowered := make(map[string]model.Table, 3)
	for name, t := range tables {
		lt, err := lowercaseTable(name, *t)
		if err != nil {
			return nil, nil, err
		}
		lowered[name] = lt
	}

	var warnings []model.Warning

	calendarRows, w := normalizeCalendar(lowered["calendario"])
	warnings = append(warnings, w...)

	estimateRows, w := normalizeEstimates(lowered["estimativas"])
	warnings = append(warnings, w...)

	employeeRows, w := normalizeEmployees(lowered["colaborador"])
	warnings = append(warnings, w...)

	out := &model.NormalizedInput{
		Calendar:  calendarRows,
		Estimates: estimateRows,
		Employees: employeeRows,
		Settings:  raw.Settings,
	}
	return out, warnings, nil
}

func lowercaseTable(name string, t model.Table) (model.Table, error) {
	cols := make([]string, len(t.Columns))
	colIndex := make(map[string]bool, len(t.Columns))
	for i, c := range t.Columns {
		lc := strings.ToLower(strings.TrimSpace(c))
		cols[i] = lc
		colIndex[lc] = true
	}
	for _, req := range requiredColumns[name] {
		if !colIndex[req] {
			return model.Table{}, salsaerr.MissingColumn(name, req)
		}
	}

	rows := make([]map[string]any, len(t.Rows))
	for i, row := range t.Rows {
		lr := make(map[string]any, len(row))
		for k, v := range row {
			lr[strings.ToLower(strings.TrimSpace(k))] = v
		}
		rows[i] = lr
	}
	return model.Table{Columns: cols, Rows: rows}, nil
}

func normalizeCalendar(t model.Table) ([]model.CalendarRow, []model.Warning) {
	var out []model.CalendarRow
	var warnings []model.Warning
	for _, row := range t.Rows {
		colab, ok := coerceInt(row["colaborador"])
		if !ok {
			continue // rows that fail coercion are dropped
		}
		date, ok := coerceDate(row["data"])
		if !ok {
			continue
		}
		wd, _ := coerceInt(row["wd"])
		ww, _ := coerceInt(row["ww"])
		out = append(out, model.CalendarRow{
			Colaborador: colab,
			Data:        date,
			DayOfYear:   date.YearDay(),
			WD:          wd,
			DiaTipo:     coerceString(row["dia_tipo"]),
			TipoTurno:   strings.ToUpper(coerceString(row["tipo_turno"])),
			WW:          ww,
		})
	}
	return out, warnings
}

func normalizeEstimates(t model.Table) ([]model.EstimateRow, []model.Warning) {
	var out []model.EstimateRow
	var warnings []model.Warning
	for _, row := range t.Rows {
		date, ok := coerceDate(row["data"])
		if !ok {
			continue
		}
		media, _ := coerceFloat(row["media_turno"])
		max, _ := coerceInt(row["max_turno"])
		min, _ := coerceInt(row["min_turno"])
		pess, _ := coerceInt(row["pess_obj"])
		sd, _ := coerceFloat(row["sd_turno"])
		wday, _ := coerceInt(row["wday"])
		out = append(out, model.EstimateRow{
			Data:        date,
			DayOfYear:   date.YearDay(),
			Turno:       strings.ToUpper(coerceString(row["turno"])),
			MediaTurno:  media,
			MaxTurno:    max,
			MinTurno:    min,
			PessObj:     pess,
			SdTurno:     sd,
			FkTipoPosto: coerceString(row["fk_tipo_posto"]),
			WDay:        wday,
		})
	}
	return out, warnings
}

func normalizeEmployees(t model.Table) ([]model.EmployeeRow, []model.Warning) {
	var out []model.EmployeeRow
	var warnings []model.Warning
	for _, row := range t.Rows {
		matricula, ok := coerceInt(row["matricula"])
		if !ok {
			continue
		}
		c2d, _ := coerceInt(row["c2d"])
		lDomSalsa, _ := coerceInt(row["l_dom_salsa"])
		admissao := coerceOptionalDate(row["data_admissao"])
		demissao := coerceOptionalDate(row["data_demissao"])

		contractType, hasContract := coerceInt(row["contract_type"])
		if !hasContract {
			contractType, hasContract = coerceInt(row["tipo_contrato"])
		}

		er := model.EmployeeRow{
			Matricula:        matricula,
			Cycle:            coerceString(row["cycle"]),
			ContractType:     contractType,
			TipoContrato:     coerceString(row["tipo_contrato"]),
			LTotal:           coerceIntDefault(row["l_total"], 0),
			LDom:             coerceIntDefault(row["l_dom"], 0),
			LDomSalsa:        lDomSalsa,
			C2D:              c2d,
			C3D:              coerceIntDefault(row["c3d"], 0),
			LD:               coerceIntDefault(row["l_d"], 0),
			LQ:               coerceIntDefault(row["l_q"], 0),
			CXX:              coerceIntDefault(row["cxx"], 0),
			VZ:               coerceIntDefault(row["vz"], 0),
			LRes:             coerceIntDefault(row["l_res"], 0),
			LRes2:            coerceIntDefault(row["l_res2"], 0),
			TLQ:              coerceIntDefault(row["t_lq"], 0),
			DataAdmissao:     admissao,
			DataDemissao:     demissao,
			PrioridadeFolgas: coerceIntDefault(row["prioridade_folgas"], 0),
		}
		if !hasContract {
			er.ContractType = 0
		}
		out = append(out, er)
	}
	return out, warnings
}

func coerceInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case float64:
		return int(x), true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			f, err2 := strconv.ParseFloat(s, 64)
			if err2 != nil {
				return 0, false
			}
			return int(f), true
		}
		return n, true
	default:
		return 0, false
	}
}

func coerceIntDefault(v any, def int) int {
	n, ok := coerceInt(v)
	if !ok {
		return def
	}
	return n
}

func coerceFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func coerceString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func coerceDate(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return time.Time{}, false
		}
		d, err := time.Parse(dateLayout, s)
		if err != nil {
			return time.Time{}, false
		}
		return d, true
	default:
		return time.Time{}, false
	}
}

func coerceOptionalDate(v any) *time.Time {
	d, ok := coerceDate(v)
	if !ok {
		return nil
	}
	return &d
}
