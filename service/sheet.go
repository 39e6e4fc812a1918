package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sportclub/crm_backend/utils"
)

// sheetClient 拉取远端表格用的HTTP客户端
var sheetClient = &http.Client{Timeout: 30 * time.Second}

// FetchSheetCSV 拉取远端表格的CSV导出。
// 返回的内容不在这里校验格式，HTML检测在解析阶段统一处理。
func FetchSheetCSV(ctx context.Context, url string) (string, error) {
	if url == "" {
		return "", utils.CreateBadRequestError("la URL de la hoja no está configurada")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := sheetClient.Do(req)
	if err != nil {
		return "", utils.CreateFeedFormatError(fmt.Sprintf("descargar la hoja falló: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", utils.CreateFeedFormatError(
			fmt.Sprintf("la fuente respondió con estado %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), nil
}
