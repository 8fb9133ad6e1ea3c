package letter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GSOC-Innovators-Club/Appointment-Letter/models"
)

var testDate = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

func testMember() models.Member {
	return models.Member{
		ID:    "doc-1",
		Name:  "jane doe",
		RegNo: "21BCE123",
		Team:  "Technical",
		Email: "jane@vitbhopal.ac.in",
	}
}

func TestRender_SubstitutionsAppearExactlyOnce(t *testing.T) {
	doc, err := Render(testMember(), testDate, "2025-26", Images{})
	require.NoError(t, err)

	// Salutation uppercases the name; regNo and team go in verbatim; the
	// date renders in the fixed long style
	assert.Equal(t, 1, strings.Count(doc, "JANE DOE"))
	assert.Equal(t, 1, strings.Count(doc, "21BCE123"))
	assert.Equal(t, 1, strings.Count(doc, "Technical"))
	assert.Equal(t, 1, strings.Count(doc, "January 1, 2025"))
}

func TestRender_Idempotent(t *testing.T) {
	first, err := Render(testMember(), testDate, "2025-26", Images{ClubLogo: "data:image/png;base64,AAAA"})
	require.NoError(t, err)

	second, err := Render(testMember(), testDate, "2025-26", Images{ClubLogo: "data:image/png;base64,AAAA"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRender_EmptyImageHandleOmitsElement(t *testing.T) {
	images := Images{
		InstituteLogo: "data:image/png;base64,INST",
		ClubLogo:      "data:image/png;base64,CLUB",
		PresidentSign: "data:image/jpeg;base64,PRES",
		// Faculty and vice president signatures omitted
	}

	doc, err := Render(testMember(), testDate, "2025-26", images)
	require.NoError(t, err)

	assert.NotContains(t, doc, `alt="Faculty Signature"`)
	assert.NotContains(t, doc, `alt="Vice President Signature"`)
	assert.Contains(t, doc, `alt="President Signature"`)
	assert.Contains(t, doc, `alt="VIT Bhopal Logo"`)
	assert.Contains(t, doc, `alt="GSoC Innovators Club Logo"`)

	// Omitted signatures still leave their blocks in place so the remaining
	// layout does not shift
	assert.Equal(t, 3, strings.Count(doc, `class="signature-block"`))
	assert.Contains(t, doc, "Faculty Coordinator")
	assert.Contains(t, doc, "Vice President")
}

func TestRender_AllImagesOmitted(t *testing.T) {
	doc, err := Render(testMember(), testDate, "2025-26", Images{})
	require.NoError(t, err)

	assert.NotContains(t, doc, "<img")
	assert.Equal(t, 2, strings.Count(doc, `class="logo-slot"`))
	assert.Equal(t, 3, strings.Count(doc, `class="signature-block"`))
}

func TestRender_DataURISourcesSurviveEscaping(t *testing.T) {
	images := Images{InstituteLogo: "data:image/png;base64,iVBORw0KGgo="}

	doc, err := Render(testMember(), testDate, "2025-26", images)
	require.NoError(t, err)

	assert.Contains(t, doc, `src="data:image/png;base64,iVBORw0KGgo="`)
	assert.NotContains(t, doc, "ZgotmplZ")
}

func TestRender_EmptyNameDoesNotFail(t *testing.T) {
	member := testMember()
	member.Name = ""

	doc, err := Render(member, testDate, "2025-26", Images{})
	require.NoError(t, err)
	assert.Contains(t, doc, "Dear ,")
}

func TestRender_SelfContainedDocument(t *testing.T) {
	doc, err := Render(testMember(), testDate, "2025-26", Images{})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(doc, "<!DOCTYPE html>"))
	assert.Contains(t, doc, "</html>")
	assert.Contains(t, doc, "Letter of Appointment")
	assert.Contains(t, doc, "2025-26 academic tenure")
}
