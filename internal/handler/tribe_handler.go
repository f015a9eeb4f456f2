// Package handler 提供 HTTP 请求处理器
// 本文件处理部落相关的 API 请求
// 管理后台经 JWT 认证后以平台管理员身份操作，ActorId 仅用于历史归属
package handler

import (
	"errors"
	"strconv"

	"tribe_card_server/internal/dto/request"
	"tribe_card_server/internal/service"
	"tribe_card_server/internal/service/permission"

	"github.com/gin-gonic/gin"
)

// errMissingGuildId guildId 查询参数缺失
var errMissingGuildId = errors.New("guildId 参数缺失")

// errMissingUserId userId 查询参数缺失
var errMissingUserId = errors.New("userId 参数缺失")

// TribeHandler 部落请求处理器
// 通过构造函数注入 TribeService，遵循依赖倒置原则
type TribeHandler struct {
	tribeSvc service.TribeService
}

// NewTribeHandler 创建部落处理器实例
func NewTribeHandler(tribeSvc service.TribeService) *TribeHandler {
	return &TribeHandler{tribeSvc: tribeSvc}
}

// staffActor 管理后台操作者，持平台管理员权限
func staffActor(userId string) permission.Actor {
	return permission.Actor{UserId: userId, Staff: true}
}

// CreateTribe 创建部落
// POST /tribe/createTribe
// 请求体: request.CreateTribeRequest
// 响应: respond.TribeSummaryRespond
func (h *TribeHandler) CreateTribe(c *gin.Context) {
	var req request.CreateTribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.tribeSvc.CreateTribe(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetTribe 获取部落详情
// GET /tribe/getTribe/:uuid
// 响应: respond.TribeDetailRespond
func (h *TribeHandler) GetTribe(c *gin.Context) {
	data, err := h.tribeSvc.GetTribe(c.Param("uuid"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// ListTribes 列出 guild 内全部部落
// GET /tribe/listTribes?guildId=xxx
// 响应: []respond.TribeSummaryRespond
func (h *TribeHandler) ListTribes(c *gin.Context) {
	guildId := c.Query("guildId")
	if guildId == "" {
		HandleParamError(c, errMissingGuildId)
		return
	}
	data, err := h.tribeSvc.ListTribes(guildId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// ListMyTribes 列出用户管理与加入的部落
// GET /tribe/listMyTribes?guildId=xxx&userId=xxx
// 响应: respond.MyTribesRespond
func (h *TribeHandler) ListMyTribes(c *gin.Context) {
	guildId := c.Query("guildId")
	userId := c.Query("userId")
	if guildId == "" {
		HandleParamError(c, errMissingGuildId)
		return
	}
	if userId == "" {
		HandleParamError(c, errMissingUserId)
		return
	}
	data, err := h.tribeSvc.ListMyTribes(guildId, userId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// UpdateTribe 更新部落资料
// POST /tribe/updateTribe/:uuid
// 请求体: request.UpdateTribeRequest
// 响应: nil
func (h *TribeHandler) UpdateTribe(c *gin.Context) {
	var req request.UpdateTribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.tribeSvc.UpdateProfile(c.Request.Context(), staffActor(req.ActorId), c.Param("uuid"), req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// UpsertMember 添加或更新成员
// POST /tribe/upsertMember/:uuid
// 请求体: request.UpsertMemberRequest
// 响应: nil
func (h *TribeHandler) UpsertMember(c *gin.Context) {
	var req request.UpsertMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.tribeSvc.UpsertMember(c.Request.Context(), staffActor(req.ActorId), c.Param("uuid"), req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// RemoveMember 移除成员
// POST /tribe/removeMember/:uuid
// 请求体: request.RemoveMemberRequest
// 响应: nil
func (h *TribeHandler) RemoveMember(c *gin.Context) {
	var req request.RemoveMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.tribeSvc.RemoveMember(c.Request.Context(), staffActor(req.ActorId), c.Param("uuid"), req.UserId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// AddOutpost 添加前哨站
// POST /tribe/addOutpost/:uuid
// 请求体: request.AddOutpostRequest
// 响应: nil
func (h *TribeHandler) AddOutpost(c *gin.Context) {
	var req request.AddOutpostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.tribeSvc.AddOutpost(c.Request.Context(), staffActor(req.ActorId), c.Param("uuid"), req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// RemoveOutpost 移除前哨站
// POST /tribe/removeOutpost/:uuid
// 请求体: request.RemoveOutpostRequest
// 响应: nil
func (h *TribeHandler) RemoveOutpost(c *gin.Context) {
	var req request.RemoveOutpostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.tribeSvc.RemoveOutpost(c.Request.Context(), staffActor(req.ActorId), c.Param("uuid"), req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// AddPhoto 追加照片
// POST /tribe/addPhoto/:uuid
// 请求体: request.AddPhotoRequest
// 响应: nil
func (h *TribeHandler) AddPhoto(c *gin.Context) {
	var req request.AddPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.tribeSvc.AddPhoto(c.Request.Context(), staffActor(req.ActorId), c.Param("uuid"), req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// RemovePhoto 移除照片
// POST /tribe/removePhoto/:uuid
// 请求体: request.RemovePhotoRequest
// 响应: nil
func (h *TribeHandler) RemovePhoto(c *gin.Context) {
	var req request.RemovePhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.tribeSvc.RemovePhoto(c.Request.Context(), staffActor(req.ActorId), c.Param("uuid"), req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// SetProgression 标记进度
// POST /tribe/setProgression/:uuid
// 请求体: request.SetProgressionRequest
// 响应: nil
func (h *TribeHandler) SetProgression(c *gin.Context) {
	var req request.SetProgressionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.tribeSvc.SetProgression(c.Request.Context(), staffActor(req.ActorId), c.Param("uuid"), req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// TransferOwner 转让所有权
// POST /tribe/transferOwner/:uuid
// 请求体: request.TransferOwnerRequest
// 响应: nil
func (h *TribeHandler) TransferOwner(c *gin.Context) {
	var req request.TransferOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.tribeSvc.TransferOwnership(c.Request.Context(), staffActor(req.ActorId), c.Param("uuid"), req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// DeleteTribe 删除部落
// POST /tribe/deleteTribe/:uuid
// 请求体: request.DeleteTribeRequest
// 响应: nil
func (h *TribeHandler) DeleteTribe(c *gin.Context) {
	var req request.DeleteTribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.tribeSvc.DeleteTribe(c.Request.Context(), staffActor(req.ActorId), c.Param("uuid"), req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// GetHistory 分页获取历史
// GET /tribe/getHistory/:uuid?page=1
// 响应: respond.HistoryPageRespond
func (h *TribeHandler) GetHistory(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}
	data, err := h.tribeSvc.GetHistory(c.Param("uuid"), page)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// PublishCard 发布卡片
// POST /tribe/publishCard/:uuid
// 请求体: request.PublishCardRequest
// 响应: nil
func (h *TribeHandler) PublishCard(c *gin.Context) {
	var req request.PublishCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.tribeSvc.PublishCard(c.Request.Context(), staffActor(req.ActorId), c.Param("uuid"), req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
