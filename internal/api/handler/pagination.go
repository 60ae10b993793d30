package handler

import (
	"net/http"
	"strconv"

	"concursos_backend/internal/platform/config"
)

type paginatedResponse struct {
	Items    interface{} `json:"items"`
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

func paginationParams(r *http.Request) (page, pageSize int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize <= 0 || pageSize > config.AppConfig.MaxPageSize {
		pageSize = config.AppConfig.DefaultPageSize
	}
	return page, pageSize
}
