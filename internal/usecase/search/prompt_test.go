package search

import (
	"fmt"
	"strings"
	"testing"

	"github.com/rsanta/DSaaS/internal/domain"
)

func TestBuildPrompt_RendersFixedFieldBlocks(t *testing.T) {
	docs := []domain.Document{
		{
			ID:           "doc-1",
			StudentName:  "Daniel Gonzalez",
			StudentID:    "2020123",
			DocumentType: "certificado",
			Status:       "aprobado",
			RequestDate:  domain.FlexDateFromString("05/10/2024"),
		},
		{ID: "doc-2"},
	}

	system, user := buildPrompt("certificados de octubre", docs, domain.SearchCriteria{}, 2)

	if !strings.Contains(system, "JSON") {
		t.Errorf("system instruction must mandate JSON output, got %q", system)
	}

	for _, want := range []string{
		"Documento 1:",
		"ID: doc-1",
		"Estudiante: Daniel Gonzalez",
		"Código: 2020123",
		"Fecha: 05/10/2024",
		"Documento 2:",
		"ID: doc-2",
		"CONSULTA: certificados de octubre",
	} {
		if !strings.Contains(user, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	// Missing fields keep their line with a fallback literal.
	for _, want := range []string{
		"Estudiante: No especificado",
		"Código: N/A",
		"UID: N/A",
		"Fecha: No especificado",
	} {
		if !strings.Contains(user, want) {
			t.Errorf("fallback line missing: %q", want)
		}
	}
}

func TestBuildPrompt_CriteriaMarkedPrefiltered(t *testing.T) {
	_, user := buildPrompt("q", sampleDocs(), domain.SearchCriteria{
		Nombre:       "Daniel",
		MesDocumento: "octubre",
		AnoDocumento: "2024",
	}, 3)

	if !strings.Contains(user, `Nombre: "Daniel"`) {
		t.Error("free criteria missing")
	}
	if !strings.Contains(user, "Mes: octubre (ya filtrado)") {
		t.Error("month should be marked as already filtered")
	}
	if !strings.Contains(user, "Año: 2024 (ya filtrado)") {
		t.Error("year should be marked as already filtered")
	}
}

func TestBuildPrompt_NoCriteria(t *testing.T) {
	_, user := buildPrompt("q", sampleDocs(), domain.SearchCriteria{}, 3)
	if !strings.Contains(user, "CRITERIOS: Todos los documentos") {
		t.Error("expected all-documents criteria text")
	}
}

func TestBuildPrompt_ReportsTotalBeyondRendered(t *testing.T) {
	// The rendered set may be capped; the header still reports the true size.
	docs := sampleDocs()
	_, user := buildPrompt("q", docs[:2], domain.SearchCriteria{}, 80)
	if !strings.Contains(user, "DOCUMENTOS PRE-FILTRADOS (80 total):") {
		t.Error("total candidate count not reflected")
	}
	if strings.Contains(user, "Documento 3:") {
		t.Error("unrendered candidate leaked into the prompt")
	}
}

func TestBuildPrompt_OutputContract(t *testing.T) {
	_, user := buildPrompt("q", sampleDocs(), domain.SearchCriteria{}, 3)
	for _, key := range []string{"summary", "matchedDocumentIds", "totalMatches", "confidence", "suggestions"} {
		if !strings.Contains(user, fmt.Sprintf("%q", key)) {
			t.Errorf("output contract missing key %q", key)
		}
	}
	if !strings.Contains(user, "alta/media/baja") {
		t.Error("confidence labels missing from contract")
	}
}

func TestBuildPrompt_PreservesCandidateOrder(t *testing.T) {
	_, user := buildPrompt("q", sampleDocs(), domain.SearchCriteria{}, 3)
	i1 := strings.Index(user, "ID: doc-1")
	i2 := strings.Index(user, "ID: doc-2")
	i3 := strings.Index(user, "ID: doc-3")
	if !(i1 < i2 && i2 < i3) {
		t.Errorf("candidates rendered out of order: %d %d %d", i1, i2, i3)
	}
}
