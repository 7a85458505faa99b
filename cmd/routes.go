package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
)

func (app *application) JWTMiddlewareWithRole(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return app.JWTMiddleware(next, requiredRole)
	}
}

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON)
	authMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole("user"))
	adminAuthMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole("admin"))

	mux := pat.New()

	// Users
	mux.Post("/user/sign_up", standardMiddleware.ThenFunc(app.userHandler.SignUp))
	mux.Post("/user/sign_in", standardMiddleware.ThenFunc(app.userHandler.SignIn))

	// Listings
	mux.Post("/listings", authMiddleware.ThenFunc(app.listingHandler.CreateListing))
	mux.Get("/listings/my", authMiddleware.ThenFunc(app.listingHandler.GetMyListings))
	mux.Get("/listings/:id", standardMiddleware.ThenFunc(app.listingHandler.GetListingByID))

	// Pricing config
	mux.Get("/config/public", standardMiddleware.ThenFunc(app.configHandler.GetPublicConfig))

	// Promotions
	mux.Post("/promotions", authMiddleware.ThenFunc(app.promotionHandler.CreatePromotion))
	mux.Get("/promotions/my", authMiddleware.ThenFunc(app.promotionHandler.GetMyPromotions))
	mux.Get("/promotions/homepage", standardMiddleware.ThenFunc(app.promotionHandler.GetActiveHomepage))
	mux.Get("/promotions/top/:category", standardMiddleware.ThenFunc(app.promotionHandler.GetActiveTopForCategory))
	mux.Post("/promotions/:id/proof", authMiddleware.ThenFunc(app.promotionHandler.SubmitPaymentProof))
	mux.Post("/promotions/:id/click", standardMiddleware.ThenFunc(app.promotionHandler.TrackClick))

	// Uploads
	mux.Post("/upload/image", authMiddleware.ThenFunc(app.uploadHandler.UploadImage))

	// Admin
	mux.Get("/admin/config", adminAuthMiddleware.ThenFunc(app.configHandler.GetConfig))
	mux.Put("/admin/config", adminAuthMiddleware.ThenFunc(app.configHandler.UpdateConfig))
	mux.Post("/admin/config/patch", adminAuthMiddleware.ThenFunc(app.configHandler.PatchConfig))
	mux.Get("/admin/promotions", adminAuthMiddleware.ThenFunc(app.promotionHandler.GetPromotionsByStatus))
	mux.Post("/admin/promotions/:id/approve", adminAuthMiddleware.ThenFunc(app.promotionHandler.ApprovePromotion))
	mux.Post("/admin/promotions/:id/reject", adminAuthMiddleware.ThenFunc(app.promotionHandler.RejectPromotion))

	return standardMiddleware.Then(mux)
}
