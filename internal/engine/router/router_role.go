package router

import (
	"github.com/go-pancake/pancake/internal/engine/consts"
	"github.com/go-pancake/pancake/internal/engine/model"
	"github.com/go-pancake/pancake/pkg/http"
	"github.com/go-pancake/pancake/pkg/http/middleware"
	"github.com/gofiber/fiber/v2"
)

/**
 * @file: router_role.go
 * @description: role management router
 */

func (rt *Router) roleRouter(r fiber.Router, auth fiber.Handler) {
	roleGroup := r.Group("/system/role", auth)
	{
		roleGroup.Get("/getRoleList", middleware.RequirePermission(rt.permService, "sys:role:list"), rt.getRoleList)
		roleGroup.Get("/getAllRoles", rt.getAllRoles)
		roleGroup.Get("/getRoleDetail/:id", middleware.RequirePermission(rt.permService, "sys:role:list"), rt.getRoleDetail)
		roleGroup.Post("/addRole", middleware.RequirePermission(rt.permService, "sys:role:add"), rt.addRole)
		roleGroup.Put("/updateRole/:id", middleware.RequirePermission(rt.permService, "sys:role:update"), rt.updateRole)
		roleGroup.Delete("/deleteRole/:id", middleware.RequirePermission(rt.permService, "sys:role:delete"), rt.deleteRole)
		// 批量删除角色影响面大, 仅限超级管理员
		roleGroup.Post("/batchDelete", middleware.RequireSuperAdmin(rt.permService), rt.batchDeleteRoles)
	}
}

func (rt *Router) getRoleList(c *fiber.Ctx) error {
	var req model.RoleListReq
	if err := c.QueryParser(&req); err != nil {
		return http.WithRepErrMsg(c, http.RequestParameterParsingFailed.Code, err.Error(), c.Path())
	}

	result, err := rt.roleService.GetRoleList(c.Context(), &req)
	if err != nil {
		return replyServiceError(c, err)
	}

	c.Locals(consts.DETAIL, result)
	return nil
}

// getAllRoles 新建用户时的角色下拉, 仅返回启用角色
func (rt *Router) getAllRoles(c *fiber.Ctx) error {
	roles, err := rt.roleService.GetAllEnabledRoles(c.Context())
	if err != nil {
		return replyServiceError(c, err)
	}

	records := make([]*model.RoleRecord, 0, len(roles))
	for _, role := range roles {
		records = append(records, &model.RoleRecord{
			Id:          role.IdString(),
			Name:        role.Name,
			Code:        role.Code,
			Description: role.Description,
			Status:      role.IsEnabled,
		})
	}

	c.Locals(consts.DETAIL, records)
	return nil
}

func (rt *Router) getRoleDetail(c *fiber.Ctx) error {
	roleId, ok := parseIdParam(c)
	if !ok {
		return http.WithRepErrMsg(c, http.BadRequest.Code, http.BadRequest.Msg, c.Path())
	}

	role, err := rt.roleService.GetRoleDetail(c.Context(), roleId)
	if err != nil {
		return replyServiceError(c, err)
	}

	c.Locals(consts.DETAIL, role)
	return nil
}

func (rt *Router) addRole(c *fiber.Ctx) error {
	var req model.AddRoleReq
	if err := c.BodyParser(&req); err != nil {
		return http.WithRepErrMsg(c, http.RequestParameterParsingFailed.Code, err.Error(), c.Path())
	}

	if err := rt.roleService.AddRole(c.Context(), &req); err != nil {
		return replyServiceError(c, err)
	}

	c.Locals(consts.OPERATION, "")
	return nil
}

func (rt *Router) updateRole(c *fiber.Ctx) error {
	roleId, ok := parseIdParam(c)
	if !ok {
		return http.WithRepErrMsg(c, http.BadRequest.Code, http.BadRequest.Msg, c.Path())
	}

	var req model.UpdateRoleReq
	if err := c.BodyParser(&req); err != nil {
		return http.WithRepErrMsg(c, http.RequestParameterParsingFailed.Code, err.Error(), c.Path())
	}

	if err := rt.roleService.UpdateRole(c.Context(), roleId, &req); err != nil {
		return replyServiceError(c, err)
	}

	c.Locals(consts.OPERATION, "")
	return nil
}

func (rt *Router) deleteRole(c *fiber.Ctx) error {
	roleId, ok := parseIdParam(c)
	if !ok {
		return http.WithRepErrMsg(c, http.BadRequest.Code, http.BadRequest.Msg, c.Path())
	}

	if err := rt.roleService.DeleteRole(c.Context(), roleId); err != nil {
		return replyServiceError(c, err)
	}

	c.Locals(consts.OPERATION, "")
	return nil
}

func (rt *Router) batchDeleteRoles(c *fiber.Ctx) error {
	var req model.BatchDeleteReq
	if err := c.BodyParser(&req); err != nil {
		return http.WithRepErrMsg(c, http.RequestParameterParsingFailed.Code, err.Error(), c.Path())
	}

	roleIds, ok := parseIdList(req.Ids)
	if !ok || len(roleIds) == 0 {
		return http.WithRepErrMsg(c, http.BadRequest.Code, http.BadRequest.Msg, c.Path())
	}

	if err := rt.roleService.BatchDeleteRoles(c.Context(), roleIds); err != nil {
		return replyServiceError(c, err)
	}

	c.Locals(consts.OPERATION, "")
	return nil
}
