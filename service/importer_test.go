package service

import (
	"testing"
	"time"

	"github.com/sportclub/crm_backend/models"
	"github.com/sportclub/crm_backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"11-2233-4455":    "1122334455",
		"(011) 4433 2211": "01144332211",
		"11.22.33":        "112233",
		"11/22/33":        "112233",
		"0054911223344":   "+54911223344",
		"+549112233":      "+549112233",
		"":                "",
	}
	for input, want := range cases {
		assert.Equal(t, want, NormalizePhone(input), "input: %q", input)
	}
}

func TestPlaceholderEmailDeterministic(t *testing.T) {
	a := PlaceholderEmail("1122334455")
	b := PlaceholderEmail("1122334455")
	assert.Equal(t, a, b)
	assert.Equal(t, "whatsapp.1122334455@placeholder.local", a)
}

func TestParseCSVRejectsHTML(t *testing.T) {
	pages := []string{
		"<!DOCTYPE html><html><body>login</body></html>",
		"  <html lang=\"es\"><head></head></html>",
	}
	for _, page := range pages {
		_, err := ParseCSVText(page)
		require.Error(t, err)
		apiErr, ok := err.(*utils.ApiError)
		require.True(t, ok)
		assert.Equal(t, "FEED_FORMAT_ERROR", apiErr.ErrorCode)
	}
}

func TestParseCSVQuotedFields(t *testing.T) {
	rows, err := ParseCSVText("a,\"b,c\",\"con \"\"comillas\"\"\"\nx,\"línea\npartida\",z")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"a", "b,c", "con \"comillas\""}, rows[0])
	assert.Equal(t, []string{"x", "línea\npartida", "z"}, rows[1])
}

func TestParseCSVStripsBOMAndEmptyLines(t *testing.T) {
	rows, err := ParseCSVText("\uFEFFnombre,telefono\n\n,, \nJuan,1122\n")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "nombre", rows[0][0])
}

func TestParseLeadsHeaderAliases(t *testing.T) {
	// 带变音符号和大小写差异的表头也要识别
	csv := "Teléfono Celular,NOMBRE,Correo Electrónico,Observaciones\n1122,Juan,juan@mail.com,llamar tarde"
	leads, err := ParseLeads(csv)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Juan", leads[0].Name)
	assert.Equal(t, "1122", leads[0].Phone)
	assert.Equal(t, "juan@mail.com", leads[0].Email)
	assert.Equal(t, "llamar tarde", leads[0].Notes)
}

func TestParseLeadsJoinsLastName(t *testing.T) {
	csv := "Nombre,Apellido,Email,Celular\nAna,Gomez,ana@x.com,11-2233-4455"
	leads, err := ParseLeads(csv)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Ana Gomez", leads[0].FullName())
	assert.Equal(t, "1122334455", NormalizePhone(leads[0].Phone))
}

func TestParseLeadsUnrecognizedHeader(t *testing.T) {
	_, err := ParseLeads("foo,bar\n1,2")
	require.Error(t, err)
	apiErr, ok := err.(*utils.ApiError)
	require.True(t, ok)
	assert.Equal(t, "FEED_FORMAT_ERROR", apiErr.ErrorCode)
}

func reconcileOpts(sellers ...string) ReconcileOptions {
	branches := make(map[string]models.Branch, len(sellers))
	for _, s := range sellers {
		branches[s] = models.BranchParaguay
	}
	return ReconcileOptions{
		AssignmentType: models.ImportAssignRoundRobin,
		SellerIDs:      sellers,
		SellerBranches: branches,
		ActorID:        "system",
		Now:            time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestReconcileSkipsDuplicatesByPhone(t *testing.T) {
	index := NewDedupeIndex()
	index.Add("11-2233-4455", "")

	leads := []Lead{
		{Name: "Ana", Phone: "1122334455"},
		{Name: "Beto", Phone: "5566"},
	}
	prospects, duplicates, incomplete, err := ReconcileLeads(leads, index, reconcileOpts("s1"))
	require.NoError(t, err)
	assert.Len(t, prospects, 1)
	assert.Equal(t, 1, duplicates)
	assert.Equal(t, 0, incomplete)
	assert.Equal(t, "Beto", prospects[0].Name)
}

func TestReconcileSkipsDuplicatesByEmail(t *testing.T) {
	index := NewDedupeIndex()
	index.Add("", "Ana@Mail.com")

	leads := []Lead{{Name: "Ana", Email: "ana@mail.com"}}
	prospects, duplicates, _, err := ReconcileLeads(leads, index, reconcileOpts("s1"))
	require.NoError(t, err)
	assert.Empty(t, prospects)
	assert.Equal(t, 1, duplicates)
}

func TestReconcileDedupesWithinBatch(t *testing.T) {
	leads := []Lead{
		{Name: "Ana", Phone: "1122"},
		{Name: "Ana otra vez", Phone: "11-22"},
	}
	prospects, duplicates, _, err := ReconcileLeads(leads, NewDedupeIndex(), reconcileOpts("s1"))
	require.NoError(t, err)
	assert.Len(t, prospects, 1)
	assert.Equal(t, 1, duplicates)
}

func TestReconcileCountsIncomplete(t *testing.T) {
	leads := []Lead{
		{Name: "", Phone: "1122"},            // 没有姓名
		{Name: "Sin contacto"},               // 没有电话也没有邮箱
		{Name: "Ok", Email: "ok@mail.com"},   // 完整
	}
	prospects, _, incomplete, err := ReconcileLeads(leads, NewDedupeIndex(), reconcileOpts("s1"))
	require.NoError(t, err)
	assert.Len(t, prospects, 1)
	assert.Equal(t, 2, incomplete)
}

func TestReconcilePlaceholderEmail(t *testing.T) {
	leads := []Lead{{Name: "Solo WhatsApp", Phone: "11-9988-7766"}}
	prospects, _, _, err := ReconcileLeads(leads, NewDedupeIndex(), reconcileOpts("s1"))
	require.NoError(t, err)
	require.Len(t, prospects, 1)
	assert.Equal(t, "whatsapp.1199887766@placeholder.local", prospects[0].Email)
}

func TestReconcileRoundRobinAssignment(t *testing.T) {
	leads := []Lead{
		{Name: "L1", Phone: "1"},
		{Name: "L2", Phone: "2"},
		{Name: "L3", Phone: "3"},
		{Name: "L4", Phone: "4"},
	}
	prospects, _, _, err := ReconcileLeads(leads, NewDedupeIndex(), reconcileOpts("s1", "s2"))
	require.NoError(t, err)
	require.Len(t, prospects, 4)
	assert.Equal(t, "s1", prospects[0].AssignedTo)
	assert.Equal(t, "s2", prospects[1].AssignedTo)
	assert.Equal(t, "s1", prospects[2].AssignedTo)
	assert.Equal(t, "s2", prospects[3].AssignedTo)
}

func TestReconcileRoundRobinSkipsRejectedRows(t *testing.T) {
	// 轮询序号按创建的记录推进，被跳过的行不占坑
	leads := []Lead{
		{Name: "L1", Phone: "1"},
		{Name: ""}, // 不完整
		{Name: "L2", Phone: "2"},
	}
	prospects, _, _, err := ReconcileLeads(leads, NewDedupeIndex(), reconcileOpts("s1", "s2"))
	require.NoError(t, err)
	require.Len(t, prospects, 2)
	assert.Equal(t, "s1", prospects[0].AssignedTo)
	assert.Equal(t, "s2", prospects[1].AssignedTo)
}

func TestReconcileManualAssignment(t *testing.T) {
	opts := reconcileOpts()
	opts.AssignmentType = models.ImportAssignManual
	opts.Assignments = map[int]string{0: "s9", 1: "s8"}
	opts.SellerBranches = map[string]models.Branch{"s9": models.BranchDiagonal}

	leads := []Lead{
		{Name: "L1", Phone: "1"},
		{Name: "L2", Phone: "2"},
	}
	prospects, _, _, err := ReconcileLeads(leads, NewDedupeIndex(), opts)
	require.NoError(t, err)
	require.Len(t, prospects, 2)
	assert.Equal(t, "s9", prospects[0].AssignedTo)
	assert.Equal(t, models.BranchDiagonal, prospects[0].Branch)
	// 查不到分店的销售落到General
	assert.Equal(t, models.BranchGeneral, prospects[1].Branch)
}

func TestReconcileManualAssignmentIncomplete(t *testing.T) {
	opts := reconcileOpts()
	opts.AssignmentType = models.ImportAssignManual
	opts.Assignments = map[int]string{0: "s9"}

	leads := []Lead{
		{Name: "L1", Phone: "1"},
		{Name: "L2", Phone: "2"}, // 第二行没有指定销售
	}
	_, _, _, err := ReconcileLeads(leads, NewDedupeIndex(), opts)
	require.Error(t, err)
}

func TestReconcileRoundRobinRequiresSellers(t *testing.T) {
	opts := reconcileOpts()
	_, _, _, err := ReconcileLeads([]Lead{{Name: "L", Phone: "1"}}, NewDedupeIndex(), opts)
	require.Error(t, err)
}

func TestLeadImportNotesStamp(t *testing.T) {
	lead := Lead{Origen: "instagram", Sucursal: "Barracas", Fecha: "2026-03-01"}
	assert.Equal(t,
		"Importado desde Google Sheet. Origen: instagram | Sucursal: Barracas | Fecha: 2026-03-01",
		lead.ImportNotes())

	// 缺失的来源字段用N/A占位
	assert.Equal(t,
		"Importado desde Google Sheet. Origen: N/A | Sucursal: N/A | Fecha: N/A",
		Lead{}.ImportNotes())
}

func TestReconcileStampsImportOrigin(t *testing.T) {
	// 来源列从表头一路传到落库的笔记和地址
	csv := "Nombre,Celular,Origen,Sucursal,Fecha\nAna,1122,instagram,Barracas,2026-03-01"
	leads, err := ParseLeads(csv)
	require.NoError(t, err)
	require.Len(t, leads, 1)

	prospects, _, _, err := ReconcileLeads(leads, NewDedupeIndex(), reconcileOpts("s1"))
	require.NoError(t, err)
	require.Len(t, prospects, 1)

	p := prospects[0]
	assert.Equal(t,
		"Importado desde Google Sheet. Origen: instagram | Sucursal: Barracas | Fecha: 2026-03-01",
		p.Notes)
	assert.Equal(t, "Barracas", p.Address)
}

func TestReconcileKeepsSheetNotesBeforeStamp(t *testing.T) {
	leads := []Lead{{Name: "Ana", Phone: "1122", Notes: "llamar tarde", Origen: "web"}}
	prospects, _, _, err := ReconcileLeads(leads, NewDedupeIndex(), reconcileOpts("s1"))
	require.NoError(t, err)
	require.Len(t, prospects, 1)
	assert.Equal(t,
		"llamar tarde\nImportado desde Google Sheet. Origen: web | Sucursal: N/A | Fecha: N/A",
		prospects[0].Notes)
}

func TestReconcileProspectDefaults(t *testing.T) {
	opts := reconcileOpts("s1")
	prospects, _, _, err := ReconcileLeads([]Lead{{Name: "Ana", Phone: "1122"}}, NewDedupeIndex(), opts)
	require.NoError(t, err)
	require.Len(t, prospects, 1)

	p := prospects[0]
	assert.Equal(t, models.StageNew, p.Stage)
	assert.Equal(t, models.SourceGoogleSheet, p.Source)
	assert.Equal(t, models.InterestNotReported, p.Interest)
	require.NotNil(t, p.NextActionDate)
	assert.Equal(t, opts.Now.Add(24*time.Hour), *p.NextActionDate)
}
