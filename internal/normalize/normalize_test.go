package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salsa-engine/salsa/internal/model"
	"github.com/salsa-engine/salsa/internal/salsaerr"
)

func baseRaw() model.RawInput {
	return model.RawInput{
		Calendario: model.Table{
			Columns: []string{"Colaborador", "Data", "WD", "Dia_Tipo", "Tipo_Turno", "WW"},
			Rows: []map[string]any{
				{"Colaborador": "1", "Data": "2026-01-05", "WD": "1", "Dia_Tipo": "normal", "Tipo_Turno": "m", "WW": "2"},
				{"Colaborador": "1", "Data": "not-a-date", "WD": "1", "Dia_Tipo": "normal", "Tipo_Turno": "M", "WW": "2"},
			},
		},
		Estimativas: model.Table{
			Columns: []string{"Data", "Turno", "Media_Turno", "Max_Turno", "Min_Turno", "Pess_Obj", "Sd_Turno", "Fk_Tipo_Posto", "Wday"},
			Rows: []map[string]any{
				{"Data": "2026-01-05", "Turno": "m", "Media_Turno": "3.5", "Max_Turno": "5", "Min_Turno": "2", "Pess_Obj": "3", "Sd_Turno": "0.5", "Fk_Tipo_Posto": "A", "Wday": "1"},
			},
		},
		Colaborador: model.Table{
			Columns: []string{"Matricula", "C2D", "Data_Admissao", "Data_Demissao", "L_Dom_Salsa"},
			Rows: []map[string]any{
				{"Matricula": "1", "C2D": "4", "Data_Admissao": "", "Data_Demissao": "", "L_Dom_Salsa": "10"},
			},
		},
	}
}

func TestNormalize_LowercasesColumnsAndCoercesRows(t *testing.T) {
	out, _, err := Normalize(baseRaw())
	require.NoError(t, err)

	require.Len(t, out.Calendar, 1, "row with an unparseable date must be dropped")
	assert.Equal(t, "M", out.Calendar[0].TipoTurno)
	assert.Equal(t, 1, out.Calendar[0].Colaborador)

	require.Len(t, out.Estimates, 1)
	assert.Equal(t, "M", out.Estimates[0].Turno)
	assert.Equal(t, 3, out.Estimates[0].PessObj)

	require.Len(t, out.Employees, 1)
	assert.Equal(t, 4, out.Employees[0].C2D)
	assert.Equal(t, 10, out.Employees[0].LDomSalsa)
}

func TestNormalize_MissingTableIsTypedError(t *testing.T) {
	raw := baseRaw()
	raw.Colaborador = model.Table{}

	_, _, err := Normalize(raw)
	require.Error(t, err)
	assert.True(t, errIsKind(err, salsaerr.KindMissingTable))
}

func TestNormalize_MissingColumnIsTypedError(t *testing.T) {
	raw := baseRaw()
	raw.Colaborador.Columns = []string{"matricula", "data_admissao", "data_demissao", "l_dom_salsa"} // c2d dropped

	_, _, err := Normalize(raw)
	require.Error(t, err)
	assert.True(t, errIsKind(err, salsaerr.KindMissingColumn))
}

func errIsKind(err error, kind salsaerr.Kind) bool {
	se, ok := err.(*salsaerr.Error)
	return ok && se.Kind == kind
}
