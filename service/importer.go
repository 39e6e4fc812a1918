package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/sportclub/crm_backend/models"
	"github.com/sportclub/crm_backend/repository"
	"github.com/sportclub/crm_backend/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/text/unicode/norm"
)

// 批量导入管线：原始CSV文本 -> 规范化行 -> 去重/补全 -> 潜在客户。
// 重复行和不完整行按行计数后跳过，永远不让单行问题中断整批。

// htmlPattern 识别登录页/错误页等HTML响应，这类内容整批拒绝
var htmlPattern = regexp.MustCompile(`(?i)^\s*<!doctype html>|<html[\s>]`)

// headerAliases 表头别名到规范键的映射，键先经过 normalizeHeader
var headerAliases = map[string]string{
	"nombre":             "name",
	"name":               "name",
	"nombres":            "name",
	"apellido y nombre":  "name",
	"razon social":       "name",
	"apellido":           "lastname",
	"apellidos":          "lastname",
	"whatsapp":           "phone",
	"telefono celular":   "phone",
	"telefono":           "phone",
	"tel":                "phone",
	"celular":            "phone",
	"phone":              "phone",
	"mobile":             "phone",
	"correo":             "email",
	"correo electronico": "email",
	"e-mail":             "email",
	"mail":               "email",
	"email":              "email",
	"notas":              "notes",
	"observaciones":      "notes",
	"comentario":         "notes",
	"notes":              "notes",
	"origen":             "origen",
	"source":             "origen",
	"dni":                "dni",
	"fecha":              "fecha",
	"sucursal":           "sucursal",
}

// Lead 规范化后的一行导入数据
type Lead struct {
	Name     string
	LastName string
	Phone    string
	Email    string
	Notes    string
	DNI      string
	Origen   string
	Sucursal string
	Fecha    string
}

// ImportNotes 导入来源印记，固定写入每条导入记录的笔记。
// 缺失的来源字段用 N/A 占位，保证印记格式稳定可检索。
func (l Lead) ImportNotes() string {
	return fmt.Sprintf("Importado desde Google Sheet. Origen: %s | Sucursal: %s | Fecha: %s",
		orNA(l.Origen), orNA(l.Sucursal), orNA(l.Fecha))
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

// FullName 拼接姓名，姓氏列单独出现时合并到名字后面
func (l Lead) FullName() string {
	name := strings.TrimSpace(l.Name)
	lastName := strings.TrimSpace(l.LastName)
	if name == "" {
		return lastName
	}
	if lastName == "" {
		return name
	}
	return name + " " + lastName
}

// stripBOM 去掉UTF-8 BOM
func stripBOM(s string) string {
	return strings.TrimPrefix(s, "\uFEFF")
}

// unquote 去掉成对的双引号或单引号
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	return s
}

// normalizeHeader 表头规范化：去引号、去变音符号、小写、压缩空白
func normalizeHeader(s string) string {
	s = unquote(s)
	s = norm.NFD.String(s)
	var b strings.Builder
	for _, r := range s {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(strings.ToLower(b.String())), " ")
}

// canonicalKey 查找表头对应的规范键，未收录的表头返回空串
func canonicalKey(header string) string {
	return headerAliases[normalizeHeader(header)]
}

// NormalizePhone 电话规范化：去空白和分隔符，国际前缀00改写为+
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		switch {
		case unicode.IsSpace(r):
		case r == '(' || r == ')' || r == '-' || r == '.' || r == '/':
		default:
			b.WriteRune(r)
		}
	}
	normalized := b.String()
	if strings.HasPrefix(normalized, "00") {
		normalized = "+" + normalized[2:]
	}
	return normalized
}

// PlaceholderEmail 只有电话时生成确定性的占位邮箱，保证同一电话总是命中去重
func PlaceholderEmail(normalizedPhone string) string {
	return fmt.Sprintf("whatsapp.%s@placeholder.local", normalizedPhone)
}

// ParseCSVText 解析CSV文本为行。
// 支持引号字段内的逗号、换行和RFC-4180的双写引号；HTML内容返回数据源格式错误。
func ParseCSVText(text string) ([][]string, error) {
	text = stripBOM(text)

	if htmlPattern.MatchString(text) {
		return nil, utils.CreateFeedFormatError("la fuente devolvió HTML en lugar de CSV")
	}

	var rows [][]string
	var field strings.Builder
	var row []string
	inQuotes := false

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		c := runes[i]

		if inQuotes {
			if c == '"' {
				// 双写引号是转义
				if i+1 < len(runes) && runes[i+1] == '"' {
					field.WriteRune('"')
					i++
				} else {
					inQuotes = false
				}
			} else {
				field.WriteRune(c)
			}
			continue
		}

		switch c {
		case '"':
			inQuotes = true
		case ',':
			row = append(row, field.String())
			field.Reset()
		case '\r':
			// 与后面的\n合并处理
		case '\n':
			row = append(row, field.String())
			field.Reset()
			rows = append(rows, row)
			row = nil
		default:
			field.WriteRune(c)
		}
	}

	if field.Len() > 0 || row != nil {
		row = append(row, field.String())
		rows = append(rows, row)
	}

	// 丢弃完全空白的行
	filtered := make([][]string, 0, len(rows))
	for _, r := range rows {
		empty := true
		for _, cell := range r {
			if strings.TrimSpace(cell) != "" {
				empty = false
				break
			}
		}
		if !empty {
			filtered = append(filtered, r)
		}
	}

	return filtered, nil
}

// ParseLeads 解析CSV文本为规范化行，第一行必须是表头
func ParseLeads(text string) ([]Lead, error) {
	rows, err := ParseCSVText(text)
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, utils.CreateFeedFormatError("el CSV no contiene filas")
	}

	header := rows[0]
	keys := make([]string, len(header))
	recognized := 0
	for i, h := range header {
		keys[i] = canonicalKey(h)
		if keys[i] != "" {
			recognized++
		}
	}
	if recognized == 0 {
		return nil, utils.CreateFeedFormatError("ninguna columna del CSV es reconocible")
	}

	leads := make([]Lead, 0, len(rows)-1)
	for _, row := range rows[1:] {
		var lead Lead
		for i, cell := range row {
			if i >= len(keys) {
				break
			}
			value := unquote(cell)
			switch keys[i] {
			case "name":
				lead.Name = value
			case "lastname":
				lead.LastName = value
			case "phone":
				lead.Phone = value
			case "email":
				lead.Email = value
			case "notes":
				lead.Notes = value
			case "dni":
				lead.DNI = value
			case "origen":
				lead.Origen = value
			case "sucursal":
				lead.Sucursal = value
			case "fecha":
				lead.Fecha = value
			}
		}
		leads = append(leads, lead)
	}

	return leads, nil
}

// DedupeIndex 去重索引：规范化电话和小写邮箱两个维度任一命中即算重复
type DedupeIndex struct {
	phones map[string]bool
	emails map[string]bool
}

// NewDedupeIndex 构建空索引
func NewDedupeIndex() *DedupeIndex {
	return &DedupeIndex{
		phones: make(map[string]bool),
		emails: make(map[string]bool),
	}
}

// Add 登记一条联系方式
func (d *DedupeIndex) Add(phone, email string) {
	if p := NormalizePhone(phone); p != "" {
		d.phones[p] = true
	}
	if e := strings.ToLower(strings.TrimSpace(email)); e != "" {
		d.emails[e] = true
	}
}

// Seen 检查联系方式是否已存在
func (d *DedupeIndex) Seen(phone, email string) bool {
	if p := NormalizePhone(phone); p != "" && d.phones[p] {
		return true
	}
	if e := strings.ToLower(strings.TrimSpace(email)); e != "" && d.emails[e] {
		return true
	}
	return false
}

// ReconcileOptions 去重/分配参数
type ReconcileOptions struct {
	AssignmentType models.ImportAssignmentType
	SellerIDs      []string          // random 模式的轮询名单
	Assignments    map[int]string    // manual 模式的行号到销售ID
	SellerBranches map[string]models.Branch
	ActorID        string
	Now            time.Time
}

// ReconcileLeads 纯函数管线：行 -> 待创建的潜在客户 + 计数。
// 不完整 = 没有姓名，或者电话和邮箱都没有。重复以索引为准，批内新建的行也会进索引。
func ReconcileLeads(leads []Lead, index *DedupeIndex, opts ReconcileOptions) ([]models.Prospect, int, int, error) {
	if opts.AssignmentType == models.ImportAssignRoundRobin && len(opts.SellerIDs) == 0 {
		return nil, 0, 0, utils.CreateBadRequestError("la asignación aleatoria requiere al menos un vendedor")
	}

	duplicates := 0
	incomplete := 0
	prospects := make([]models.Prospect, 0, len(leads))
	nextAction := opts.Now.Add(24 * time.Hour)

	for i, lead := range leads {
		name := lead.FullName()
		phone := NormalizePhone(lead.Phone)
		email := strings.TrimSpace(lead.Email)

		if name == "" || (phone == "" && email == "") {
			incomplete++
			continue
		}

		if index.Seen(phone, email) {
			duplicates++
			continue
		}

		if email == "" {
			email = PlaceholderEmail(phone)
		}

		var sellerID string
		switch opts.AssignmentType {
		case models.ImportAssignManual:
			assigned, ok := opts.Assignments[i]
			if !ok || assigned == "" {
				return nil, 0, 0, utils.CreateBadRequestError(
					fmt.Sprintf("la asignación manual no cubre la fila %d", i))
			}
			sellerID = assigned
		default:
			sellerID = opts.SellerIDs[len(prospects)%len(opts.SellerIDs)]
		}

		branch := models.BranchGeneral
		if b, ok := opts.SellerBranches[sellerID]; ok {
			branch = b
		}

		// 来源印记固定写入笔记，表格自带的备注列保留在印记前面
		notes := lead.ImportNotes()
		if strings.TrimSpace(lead.Notes) != "" {
			notes = lead.Notes + "\n" + notes
		}

		nad := nextAction
		prospects = append(prospects, models.Prospect{
			ID:             primitive.NewObjectID(),
			Name:           name,
			Phone:          phone,
			Email:          email,
			Source:         models.SourceGoogleSheet,
			Interest:       models.InterestNotReported,
			Stage:          models.StageNew,
			AssignedTo:     sellerID,
			Branch:         branch,
			DNI:            lead.DNI,
			Address:        lead.Sucursal,
			Notes:          notes,
			CreatedAt:      opts.Now,
			UpdatedAt:      opts.Now,
			NextActionDate: &nad,
			CreatedBy:      opts.ActorID,
			UpdatedBy:      opts.ActorID,
		})
		index.Add(phone, email)
	}

	return prospects, duplicates, incomplete, nil
}

// loadDedupeIndex 用库里已有的联系方式填充去重索引
func loadDedupeIndex(ctx context.Context) (*DedupeIndex, error) {
	index := NewDedupeIndex()

	collection := repository.Collection(repository.ProspectsCollection)
	cursor, err := collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	loaded := 0
	for cursor.Next(ctx) {
		var p struct {
			Phone string `bson:"phone"`
			Email string `bson:"email"`
		}
		if err := cursor.Decode(&p); err != nil {
			continue
		}
		index.Add(p.Phone, p.Email)
		loaded++
	}

	utils.LogDbOperation("find", repository.ProspectsCollection, bson.M{}, loaded)
	return index, cursor.Err()
}

// loadSellerBranches 解析销售ID到分店的映射，查不到的销售保持缺省
func loadSellerBranches(ctx context.Context, sellerIDs []string) map[string]models.Branch {
	branches := make(map[string]models.Branch, len(sellerIDs))
	for _, id := range sellerIDs {
		if _, ok := branches[id]; ok {
			continue
		}
		if user, err := repository.FindUserByID(ctx, id); err == nil {
			branches[id] = user.Branch
		}
	}
	return branches
}

// RunImport 执行一次导入：解析、去重、分配、逐条落库。
// 单条写入失败只记日志，不影响其余行。
func RunImport(ctx context.Context, csvText string, assignmentType models.ImportAssignmentType,
	sellerIDs []string, assignments map[int]string, actorID string) (*models.ImportResult, error) {

	leads, err := ParseLeads(csvText)
	if err != nil {
		return nil, err
	}

	index, err := loadDedupeIndex(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(sellerIDs)+len(assignments))
	ids = append(ids, sellerIDs...)
	for _, id := range assignments {
		ids = append(ids, id)
	}

	prospects, duplicates, incomplete, err := ReconcileLeads(leads, index, ReconcileOptions{
		AssignmentType: assignmentType,
		SellerIDs:      sellerIDs,
		Assignments:    assignments,
		SellerBranches: loadSellerBranches(ctx, ids),
		ActorID:        actorID,
		Now:            time.Now(),
	})
	if err != nil {
		return nil, err
	}

	collection := repository.Collection(repository.ProspectsCollection)
	created := make([]models.Prospect, 0, len(prospects))
	for _, p := range prospects {
		encoded := EncodeProspectSensitive(p)
		_, err := repository.ExecuteDbOperation(func() (interface{}, error) {
			return collection.InsertOne(ctx, encoded)
		}, 3)
		if err != nil {
			utils.LogError(err, map[string]interface{}{
				"name":  p.Name,
				"phone": p.Phone,
			}, "导入单条写入失败")
			continue
		}
		created = append(created, p)
	}

	result := &models.ImportResult{
		BatchID:    uuid.New().String(),
		Total:      len(leads),
		Created:    len(created),
		Duplicates: duplicates,
		Incomplete: incomplete,
		Prospects:  created,
		Message: fmt.Sprintf("Importación completada: %d creados, %d duplicados, %d incompletos",
			len(created), duplicates, incomplete),
	}

	utils.LogInfo(map[string]interface{}{
		"batchId":    result.BatchID,
		"total":      result.Total,
		"created":    result.Created,
		"duplicates": result.Duplicates,
		"incomplete": result.Incomplete,
	}, "批量导入完成")

	return result, nil
}
