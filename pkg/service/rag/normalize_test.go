package rag

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
)

func TestNormalizeDates(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	gt.Value(t, normalizeDates("¿Hay clases este 15 de mayo?", now)).
		Equal("¿Hay clases 15 de mayo de 2026?")
	gt.Value(t, normalizeDates("El próximo 2 de junio hay examen", now)).
		Equal("El 2 de junio de 2026 hay examen")

	// absolute dates pass through untouched
	gt.Value(t, normalizeDates("¿Hay clases el 15 de mayo de 2025?", now)).
		Equal("¿Hay clases el 15 de mayo de 2025?")
}

func TestNormalizeEntity(t *testing.T) {
	gt.Value(t, normalizeEntity("José Pérez-López")).Equal("jose perezlopez")
	gt.Value(t, normalizeEntity("  Dra.   María ")).Equal("dra maria")
	gt.Value(t, normalizeEntity("")).Equal("")
}

func TestPolish(t *testing.T) {
	gt.Value(t, polish("Sí, puedes hacerlo. Debes acudir a ventanilla. Además hay más pasos.")).
		Equal("puedes hacerlo. Debes acudir a ventanilla.")
	gt.Value(t, polish("No. La fecha límite ya pasó.")).
		Equal("La fecha límite ya pasó.")
	gt.Value(t, polish("Respuesta   con    espacios")).
		Equal("Respuesta con espacios.")
	gt.Value(t, polish("")).Equal("")
}
