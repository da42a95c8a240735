package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"go-storefront/controllers"
	"go-storefront/middleware"
)

// RegisterRoutes sets up all the routes for the application. Guards are
// applied per route: customer endpoints behind the user cookie, admin
// endpoints behind the seller cookie.
func RegisterRoutes(
	router *mux.Router,
	userController *controllers.UserController,
	sellerController *controllers.SellerController,
	productController *controllers.ProductController,
	cartController *controllers.CartController,
	addressController *controllers.AddressController,
	orderController *controllers.OrderController,
) {
	api := router.PathPrefix("/api").Subrouter()

	// User auth
	api.HandleFunc("/user/register", userController.Register).Methods(http.MethodPost)
	api.HandleFunc("/user/login", userController.Login).Methods(http.MethodPost)
	api.Handle("/user/is-auth", authUser(userController.IsAuth)).Methods(http.MethodGet)
	api.Handle("/user/logout", authUser(userController.Logout)).Methods(http.MethodGet)

	// Seller auth + admin user listing
	api.HandleFunc("/seller/login", sellerController.Login).Methods(http.MethodPost)
	api.Handle("/seller/is-auth", authSeller(sellerController.IsAuth)).Methods(http.MethodGet)
	api.Handle("/seller/logout", authSeller(sellerController.Logout)).Methods(http.MethodGet)
	api.Handle("/seller/users", authSeller(sellerController.ListUsers)).Methods(http.MethodGet)

	// Cart
	api.Handle("/cart/update", authUser(cartController.UpdateCart)).Methods(http.MethodPost)

	// Addresses
	api.Handle("/address/add", authUser(addressController.AddAddress)).Methods(http.MethodPost)
	api.Handle("/address/get", authUser(addressController.GetAddresses)).Methods(http.MethodGet)

	// Orders. The named routes must come before the {orderId} catch-all.
	api.Handle("/order/cod", authUser(orderController.PlaceOrderCOD)).Methods(http.MethodPost)
	api.Handle("/order/user", authUser(orderController.GetUserOrders)).Methods(http.MethodGet)
	api.Handle("/order/seller", authSeller(orderController.GetAllOrders)).Methods(http.MethodGet)
	api.Handle("/order/update-status", authSeller(orderController.UpdateOrderStatus)).Methods(http.MethodPatch)
	api.Handle("/order/{orderId}", authUser(orderController.GetOrderDetails)).Methods(http.MethodGet)

	// Products: public catalog plus admin CRUD and bulk import
	api.HandleFunc("/products", productController.ListProducts).Methods(http.MethodGet)
	api.Handle("/products", authSeller(productController.CreateProduct)).Methods(http.MethodPost)
	api.Handle("/products/bulk", authSeller(productController.BulkUpsertProducts)).Methods(http.MethodPost)
	api.HandleFunc("/products/{idOrSlug}", productController.GetProduct).Methods(http.MethodGet)
	api.Handle("/products/{id}", authSeller(productController.UpdateProduct)).Methods(http.MethodPatch)
	api.Handle("/products/{id}", authSeller(productController.DeleteProduct)).Methods(http.MethodDelete)
}

func authUser(h http.HandlerFunc) http.Handler {
	return middleware.AuthUser(h)
}

func authSeller(h http.HandlerFunc) http.Handler {
	return middleware.AuthSeller(h)
}
