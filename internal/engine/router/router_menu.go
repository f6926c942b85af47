package router

import (
	"github.com/go-pancake/pancake/internal/engine/consts"
	"github.com/go-pancake/pancake/internal/engine/model"
	"github.com/go-pancake/pancake/pkg/http"
	"github.com/go-pancake/pancake/pkg/http/middleware"
	"github.com/gofiber/fiber/v2"
)

/**
 * @file: router_menu.go
 * @description: menu management router
 */

func (rt *Router) menuRouter(r fiber.Router, auth fiber.Handler) {
	menuGroup := r.Group("/system/menu", auth)
	{
		menuGroup.Get("/getMenuTree", rt.getMenuTree)
		menuGroup.Post("/addMenu", middleware.RequirePermission(rt.permService, "sys:menu:add"), rt.addMenu)
		menuGroup.Put("/updateMenu/:id", middleware.RequirePermission(rt.permService, "sys:menu:update"), rt.updateMenu)
		menuGroup.Delete("/deleteMenu/:id", middleware.RequirePermission(rt.permService, "sys:menu:delete"), rt.deleteMenu)
	}
}

func (rt *Router) getMenuTree(c *fiber.Ctx) error {
	tree, err := rt.menuService.GetMenuTree(c.Context())
	if err != nil {
		return replyServiceError(c, err)
	}

	c.Locals(consts.DETAIL, tree)
	return nil
}

func (rt *Router) addMenu(c *fiber.Ctx) error {
	var req model.AddMenuReq
	if err := c.BodyParser(&req); err != nil {
		return http.WithRepErrMsg(c, http.RequestParameterParsingFailed.Code, err.Error(), c.Path())
	}

	if err := rt.menuService.AddMenu(c.Context(), &req); err != nil {
		return replyServiceError(c, err)
	}

	c.Locals(consts.OPERATION, "")
	return nil
}

func (rt *Router) updateMenu(c *fiber.Ctx) error {
	menuId, ok := parseIdParam(c)
	if !ok {
		return http.WithRepErrMsg(c, http.BadRequest.Code, http.BadRequest.Msg, c.Path())
	}

	var req model.UpdateMenuReq
	if err := c.BodyParser(&req); err != nil {
		return http.WithRepErrMsg(c, http.RequestParameterParsingFailed.Code, err.Error(), c.Path())
	}

	if err := rt.menuService.UpdateMenu(c.Context(), menuId, &req); err != nil {
		return replyServiceError(c, err)
	}

	c.Locals(consts.OPERATION, "")
	return nil
}

func (rt *Router) deleteMenu(c *fiber.Ctx) error {
	menuId, ok := parseIdParam(c)
	if !ok {
		return http.WithRepErrMsg(c, http.BadRequest.Code, http.BadRequest.Msg, c.Path())
	}

	if err := rt.menuService.DeleteMenu(c.Context(), menuId); err != nil {
		return replyServiceError(c, err)
	}

	c.Locals(consts.OPERATION, "")
	return nil
}
