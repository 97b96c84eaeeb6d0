package search

import (
	"fmt"
	"strings"

	"github.com/rsanta/DSaaS/internal/domain"
	"github.com/rsanta/DSaaS/internal/domain/dates"
)

// systemInstruction fixes the assistant role and mandates JSON-only output.
const systemInstruction = "Eres un asistente de búsqueda documental. Respondes SOLO con JSON válido."

const notSpecified = "No especificado"

// buildPrompt renders the bounded search context for the completion service:
// the candidate records, the user criteria, the matching rules, and the
// output contract. totalCandidates is the pre-filter result size, which may
// exceed the rendered set when the candidate cap applied.
func buildPrompt(
	query string, docs []domain.Document, criteria domain.SearchCriteria, totalCandidates int,
) (system, user string) {
	var b strings.Builder

	b.WriteString("Analiza estos documentos académicos y encuentra los que mejor coincidan.\n\n")
	fmt.Fprintf(&b, "DOCUMENTOS PRE-FILTRADOS (%d total):\n", totalCandidates)

	for i, doc := range docs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		writeDocumentBlock(&b, i+1, doc)
	}

	fmt.Fprintf(&b, "\n\nCRITERIOS: %s\n", criteriaText(criteria))
	fmt.Fprintf(&b, "CONSULTA: %s\n", query)

	b.WriteString(`
REGLAS:
1. Usa fuzzy matching para nombres (ej: "Daniel Gonzalez" coincide con "daniell-gonzalez")
2. Los documentos ya fueron filtrados por fecha y estado, enfócate en otros criterios
3. Si no hay criterios específicos adicionales, retorna todos los IDs disponibles
4. Incluye en matchedDocumentIds únicamente IDs listados arriba

Responde SOLO con JSON:
{
  "summary": "breve descripción",
  "matchedDocumentIds": ["id1", "id2"],
  "totalMatches": número,
  "confidence": "alta/media/baja",
  "suggestions": []
}`)

	return systemInstruction, b.String()
}

// writeDocumentBlock renders one candidate as a fixed-field block. Every
// field line is always present, with a fallback literal for missing values,
// so the model's positional reading stays reliable.
func writeDocumentBlock(b *strings.Builder, n int, doc domain.Document) {
	fmt.Fprintf(b, "Documento %d:\n", n)
	fmt.Fprintf(b, "ID: %s\n", doc.ID)
	fmt.Fprintf(b, "Estudiante: %s\n", orFallback(doc.StudentName, notSpecified))
	fmt.Fprintf(b, "Código: %s\n", orFallback(doc.StudentID, "N/A"))
	fmt.Fprintf(b, "UID: %s\n", orFallback(doc.StudentUID, "N/A"))
	fmt.Fprintf(b, "Tipo: %s\n", orFallback(doc.DocumentType, notSpecified))
	fmt.Fprintf(b, "Estado: %s\n", orFallback(doc.Status, notSpecified))
	fmt.Fprintf(b, "Fecha: %s\n", dates.Format(doc.RequestDate))
	b.WriteString("---")
}

// criteriaText lists the active criteria. Dimensions the pre-filter already
// decided are marked so the model does not second-guess them.
func criteriaText(c domain.SearchCriteria) string {
	var parts []string

	add := func(label, value string, prefiltered bool) {
		if value == "" {
			return
		}
		if prefiltered {
			parts = append(parts, fmt.Sprintf("%s: %s (ya filtrado)", label, value))
			return
		}
		parts = append(parts, fmt.Sprintf("%s: %q", label, value))
	}

	add("Nombre", c.Nombre, false)
	add("Código", c.CodigoEstudiante, false)
	add("UID", c.IdentificacionEstudiante, false)
	add("Tipo", c.TipoDocumento, false)
	add("Programa", c.Programa, false)
	add("Facultad", c.Facultad, false)
	add("Sede", c.Sede, false)
	add("Firmante", c.Firmante, false)
	add("Estado", c.Estado, true)
	add("Día", c.DiaDocumento, true)
	add("Mes", c.MesDocumento, true)
	add("Año", c.AnoDocumento, true)

	if len(parts) == 0 {
		return "Todos los documentos"
	}
	return strings.Join(parts, ", ")
}

func orFallback(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
