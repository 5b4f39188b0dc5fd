package entity

import "errors"

var (
	ErrLeadNotFound     = errors.New("lead não encontrado")
	ErrPlanNotFound     = errors.New("plano não encontrado")
	ErrNotConfigured    = errors.New("integração não configurada")
	ErrTemplateDisabled = errors.New("template desativado no provedor")
)
