package entities

import (
	"github.com/gonewx/clubhero/pkg/components"
	"github.com/gonewx/clubhero/pkg/config"
	"github.com/gonewx/clubhero/pkg/ecs"
)

// NewRevealDialogEntity 创建揭示对话框实体（初始隐藏）
// 场景中只有一个对话框实体，ShowReveal 事件会复用它
func NewRevealDialogEntity(em *ecs.EntityManager) ecs.EntityID {
	entity := em.CreateEntity()
	ecs.AddComponent(em, entity, &components.RevealDialogComponent{
		Width:     config.DialogWidth,
		Height:    config.DialogMinHeight,
		CloseSize: config.DialogCloseButtonSize,
	})
	return entity
}
