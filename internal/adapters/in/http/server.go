// Package http exposes the dispatch core over echo. Every route derives the
// acting user from the JWT set by AuthMiddleware; handlers translate request
// bodies into commands and map the domain error taxonomy onto status codes.
package http

import (
	"net/http"
	"strconv"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	createDealHandler       commands.CreateDealCommandHandler
	payDealHandler          commands.PayDealCommandHandler
	acceptDealHandler       commands.AcceptDealCommandHandler
	declineDealHandler      commands.DeclineDealCommandHandler
	verifyOtpHandler        commands.VerifyOtpCommandHandler
	updateStatusHandler     commands.UpdateStatusCommandHandler
	pushLocationHandler     commands.PushLocationCommandHandler
	uploadProofPhotoHandler commands.UploadProofPhotoCommandHandler
	setSharingHandler       commands.SetLocationSharingCommandHandler
	cancelDealHandler       commands.CancelDealCommandHandler

	availableDealsHandler   queries.GetAvailableDealsQueryHandler
	trackingSnapshotHandler queries.GetTrackingSnapshotQueryHandler
}

// NewServer creates a new HTTP server with the required command and query
// handlers.
func NewServer(
	createDealHandler commands.CreateDealCommandHandler,
	payDealHandler commands.PayDealCommandHandler,
	acceptDealHandler commands.AcceptDealCommandHandler,
	declineDealHandler commands.DeclineDealCommandHandler,
	verifyOtpHandler commands.VerifyOtpCommandHandler,
	updateStatusHandler commands.UpdateStatusCommandHandler,
	pushLocationHandler commands.PushLocationCommandHandler,
	uploadProofPhotoHandler commands.UploadProofPhotoCommandHandler,
	setSharingHandler commands.SetLocationSharingCommandHandler,
	cancelDealHandler commands.CancelDealCommandHandler,
	availableDealsHandler queries.GetAvailableDealsQueryHandler,
	trackingSnapshotHandler queries.GetTrackingSnapshotQueryHandler,
) *Server {
	return &Server{
		createDealHandler:       createDealHandler,
		payDealHandler:          payDealHandler,
		acceptDealHandler:       acceptDealHandler,
		declineDealHandler:      declineDealHandler,
		verifyOtpHandler:        verifyOtpHandler,
		updateStatusHandler:     updateStatusHandler,
		pushLocationHandler:     pushLocationHandler,
		uploadProofPhotoHandler: uploadProofPhotoHandler,
		setSharingHandler:       setSharingHandler,
		cancelDealHandler:       cancelDealHandler,
		availableDealsHandler:   availableDealsHandler,
		trackingSnapshotHandler: trackingSnapshotHandler,
	}
}

// Register wires all routes onto the echo instance. The health endpoint
// stays outside the authenticated group.
func (s *Server) Register(e *echo.Echo, middleware ...echo.MiddlewareFunc) {
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	api := e.Group("/api/v1", middleware...)
	api.POST("/deals", s.CreateDeal)
	api.GET("/deals/available", s.GetAvailableDeals)
	api.POST("/deals/:dealId/pay", s.PayDeal)
	api.POST("/deals/:dealId/accept", s.AcceptDeal)
	api.POST("/deals/:dealId/decline", s.DeclineDeal)
	api.POST("/deals/:dealId/otp", s.VerifyOtp)
	api.PATCH("/deals/:dealId/status", s.UpdateStatus)
	api.POST("/deals/:dealId/location", s.PushLocation)
	api.POST("/deals/:dealId/photos", s.UploadProofPhoto)
	api.PUT("/deals/:dealId/sharing", s.SetLocationSharing)
	api.POST("/deals/:dealId/cancel", s.CancelDeal)
	api.GET("/deals/:dealId/tracking", s.GetTrackingSnapshot)
}

type addressRequest struct {
	Text      string   `json:"text"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type createDealRequest struct {
	OrderID    string         `json:"orderId"`
	Pickup     addressRequest `json:"pickup"`
	Drop       addressRequest `json:"drop"`
	Vehicle    string         `json:"vehicle"`
	DistanceKm float64        `json:"distanceKm"`
	PricePerKm float64        `json:"pricePerKm"`
	TotalCost  *float64       `json:"totalCost"`
}

// CreateDeal handles POST /api/v1/deals.
func (s *Server) CreateDeal(c echo.Context) error {
	actorID, ok := ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorBody(http.StatusUnauthorized, "not authenticated"))
	}

	var req createDealRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(http.StatusBadRequest, "invalid request body"))
	}

	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(http.StatusBadRequest, "invalid order id"))
	}

	dealID := kernel.NewUUID()
	cmd, err := commands.NewCreateDealCommand(
		dealID, orderID, actorID,
		commands.AddressInput{Text: req.Pickup.Text, Latitude: req.Pickup.Latitude, Longitude: req.Pickup.Longitude},
		commands.AddressInput{Text: req.Drop.Text, Latitude: req.Drop.Latitude, Longitude: req.Drop.Longitude},
		req.Vehicle,
		req.DistanceKm,
		req.PricePerKm,
		req.TotalCost,
	)
	if err != nil {
		return c.JSON(fail(err))
	}

	if err := s.createDealHandler.Handle(c.Request().Context(), cmd); err != nil {
		return c.JSON(fail(err))
	}

	return c.JSON(http.StatusCreated, map[string]string{"dealId": dealID.String()})
}

// PayDeal handles POST /api/v1/deals/:dealId/pay.
func (s *Server) PayDeal(c echo.Context) error {
	actorID, ok := ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorBody(http.StatusUnauthorized, "not authenticated"))
	}

	dealID, err := dealIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(http.StatusBadRequest, "invalid deal id"))
	}

	cmd, err := commands.NewPayDealCommand(dealID, actorID)
	if err != nil {
		return c.JSON(fail(err))
	}

	if err := s.payDealHandler.Handle(c.Request().Context(), cmd); err != nil {
		return c.JSON(fail(err))
	}

	return c.NoContent(http.StatusNoContent)
}

// GetAvailableDeals handles GET /api/v1/deals/available?lat=&lng=.
func (s *Server) GetAvailableDeals(c echo.Context) error {
	actorID, ok := ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorBody(http.StatusUnauthorized, "not authenticated"))
	}

	lat, err := optionalFloatParam(c, "lat")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(http.StatusBadRequest, "invalid lat"))
	}
	lng, err := optionalFloatParam(c, "lng")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(http.StatusBadRequest, "invalid lng"))
	}

	query, err := queries.NewGetAvailableDealsQuery(actorID, lat, lng)
	if err != nil {
		return c.JSON(fail(err))
	}

	deals, err := s.availableDealsHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return c.JSON(fail(err))
	}

	response := make([]availableDealResponse, len(deals))
	for i, d := range deals {
		response[i] = availableDealResponse{
			DealID:        d.ID.String(),
			OrderID:       d.OrderID.String(),
			PickupAddress: d.PickupAddress,
			PickupLat:     d.PickupLat,
			PickupLng:     d.PickupLng,
			DropAddress:   d.DropAddress,
			DistanceKm:    d.DistanceKm,
			PricePerKm:    d.PricePerKm,
			TotalCost:     d.TotalCost,
			VehicleClass:  d.VehicleClass,
			CreatedAt:     d.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		}
	}

	return c.JSON(http.StatusOK, response)
}

type availableDealResponse struct {
	DealID        string   `json:"dealId"`
	OrderID       string   `json:"orderId"`
	PickupAddress string   `json:"pickupAddress"`
	PickupLat     *float64 `json:"pickupLat,omitempty"`
	PickupLng     *float64 `json:"pickupLng,omitempty"`
	DropAddress   string   `json:"dropAddress"`
	DistanceKm    float64  `json:"distanceKm"`
	PricePerKm    float64  `json:"pricePerKm"`
	TotalCost     float64  `json:"totalCost"`
	VehicleClass  string   `json:"vehicleClass"`
	CreatedAt     string   `json:"createdAt"`
}

// AcceptDeal handles POST /api/v1/deals/:dealId/accept.
func (s *Server) AcceptDeal(c echo.Context) error {
	actorID, ok := ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorBody(http.StatusUnauthorized, "not authenticated"))
	}

	dealID, err := dealIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(http.StatusBadRequest, "invalid deal id"))
	}

	cmd, err := commands.NewAcceptDealCommand(dealID, actorID)
	if err != nil {
		return c.JSON(fail(err))
	}

	if err := s.acceptDealHandler.Handle(c.Request().Context(), cmd); err != nil {
		return c.JSON(fail(err))
	}

	return c.NoContent(http.StatusNoContent)
}

// DeclineDeal handles POST /api/v1/deals/:dealId/decline.
func (s *Server) DeclineDeal(c echo.Context) error {
	actorID, ok := ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorBody(http.StatusUnauthorized, "not authenticated"))
	}

	dealID, err := dealIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(http.StatusBadRequest, "invalid deal id"))
	}

	cmd, err := commands.NewDeclineDealCommand(dealID, actorID)
	if err != nil {
		return c.JSON(fail(err))
	}

	if err := s.declineDealHandler.Handle(c.Request().Context(), cmd); err != nil {
		return c.JSON(fail(err))
	}

	return c.NoContent(http.StatusNoContent)
}

type verifyOtpRequest struct {
	Code string `json:"code"`
}

// VerifyOtp handles POST /api/v1/deals/:dealId/otp.
func (s *Server) VerifyOtp(c echo.Context) error {
	actorID, ok := ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorBody(http.StatusUnauthorized, "not authenticated"))
	}

	dealID, err := dealIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(http.StatusBadRequest, "invalid deal id"))
	}

	var req verifyOtpRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(http.StatusBadRequest, "invalid request body"))
	}

	cmd, err := commands.NewVerifyOtpCommand(dealID, actorID, req.Code)
	if err != nil {
		return c.JSON(fail(err))
	}

	if err := s.verifyOtpHandler.Handle(c.Request().Context(), cmd); err != nil {
		return c.JSON(fail(err))
	}

	return c.NoContent(http.StatusNoContent)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /api/v1/deals/:dealId/status.
func (s *Server) UpdateStatus(c echo.Context) error {
	actorID, ok := ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorBody(http.StatusUnauthorized, "not authenticated"))
	}

	dealID, err := dealIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(http.StatusBadRequest, "invalid deal id"))
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(http.StatusBadRequest, "invalid request body"))
	}

	cmd, err := commands.NewUpdateStatusCommand(dealID, actorID, req.Status)
	if err != nil {
		return c.JSON(fail(err))
	}

	if err := s.updateStatusHandler.Handle(c.Request().Context(), cmd); err != nil {
		return c.JSON(fail(err))
	}

	return c.NoContent(http.StatusNoContent)
}

type pushLocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PushLocation handles POST /api/v1/deals/:dealId/location.
func (s *Server) PushLocation(c echo.Context) error {
	actorID, ok := ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorBody(http.StatusUnauthorized, "not authenticated"))
	}

	dealID, err := dealIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(http.StatusBadRequest, "invalid deal id"))
	}

	var req pushLocationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(http.StatusBadRequest, "invalid request body"))
	}

	cmd, err := commands.NewPushLocationCommand(dealID, actorID, req.Latitude, req.Longitude)
	if err != nil {
		return c.JSON(fail(err))
	}

	if err := s.pushLocationHandler.Handle(c.Request().Context(), cmd); err != nil {
		return c.JSON(fail(err))
	}

	return c.NoContent(http.StatusAccepted)
}

type uploadProofPhotoRequest struct {
	Format string `json:"format"`
	Data   []byte `json:"data"` // base64 in transit
}

// UploadProofPhoto handles POST /api/v1/deals/:dealId/photos.
func (s *Server) UploadProofPhoto(c echo.Context) error {
	actorID, ok := ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorBody(http.StatusUnauthorized, "not authenticated"))
	}

	dealID, err := dealIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(http.StatusBadRequest, "invalid deal id"))
	}

	var req uploadProofPhotoRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(http.StatusBadRequest, "invalid request body"))
	}

	cmd, err := commands.NewUploadProofPhotoCommand(dealID, actorID, req.Format, req.Data)
	if err != nil {
		return c.JSON(fail(err))
	}

	if err := s.uploadProofPhotoHandler.Handle(c.Request().Context(), cmd); err != nil {
		return c.JSON(fail(err))
	}

	return c.NoContent(http.StatusCreated)
}

type setSharingRequest struct {
	Enabled bool `json:"enabled"`
}

// SetLocationSharing handles PUT /api/v1/deals/:dealId/sharing.
func (s *Server) SetLocationSharing(c echo.Context) error {
	actorID, ok := ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorBody(http.StatusUnauthorized, "not authenticated"))
	}

	dealID, err := dealIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(http.StatusBadRequest, "invalid deal id"))
	}

	var req setSharingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(http.StatusBadRequest, "invalid request body"))
	}

	cmd, err := commands.NewSetLocationSharingCommand(dealID, actorID, req.Enabled)
	if err != nil {
		return c.JSON(fail(err))
	}

	if err := s.setSharingHandler.Handle(c.Request().Context(), cmd); err != nil {
		return c.JSON(fail(err))
	}

	return c.NoContent(http.StatusNoContent)
}

// CancelDeal handles POST /api/v1/deals/:dealId/cancel.
func (s *Server) CancelDeal(c echo.Context) error {
	if _, ok := ActorFromContext(c); !ok {
		return c.JSON(http.StatusUnauthorized, errorBody(http.StatusUnauthorized, "not authenticated"))
	}

	dealID, err := dealIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(http.StatusBadRequest, "invalid deal id"))
	}

	cmd, err := commands.NewCancelDealCommand(dealID)
	if err != nil {
		return c.JSON(fail(err))
	}

	if err := s.cancelDealHandler.Handle(c.Request().Context(), cmd); err != nil {
		return c.JSON(fail(err))
	}

	return c.NoContent(http.StatusNoContent)
}

// GetTrackingSnapshot handles GET /api/v1/deals/:dealId/tracking.
func (s *Server) GetTrackingSnapshot(c echo.Context) error {
	actorID, ok := ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorBody(http.StatusUnauthorized, "not authenticated"))
	}

	dealID, err := dealIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(http.StatusBadRequest, "invalid deal id"))
	}

	query, err := queries.NewGetTrackingSnapshotQuery(dealID, actorID)
	if err != nil {
		return c.JSON(fail(err))
	}

	snapshot, err := s.trackingSnapshotHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return c.JSON(fail(err))
	}

	return c.JSON(http.StatusOK, trackingSnapshotFromQuery(snapshot))
}

type trackPointResponse struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	At        time.Time `json:"at"`
}

type custodyCodesResponse struct {
	PickupOtp   string `json:"pickupOtp"`
	DeliveryOtp string `json:"deliveryOtp"`
}

type trackingSnapshotResponse struct {
	DealID                 string                `json:"dealId"`
	OrderID                string                `json:"orderId"`
	Role                   string                `json:"role"`
	Status                 string                `json:"status"`
	PaymentStatus          string                `json:"paymentStatus"`
	TransporterID          *string               `json:"transporterId,omitempty"`
	PickupAddress          string                `json:"pickupAddress"`
	DropAddress            string                `json:"dropAddress"`
	LocationSharingEnabled bool                  `json:"locationSharingEnabled"`
	LastKnown              *trackPointResponse   `json:"lastKnown,omitempty"`
	PickupAt               *time.Time            `json:"pickupAt,omitempty"`
	DeliveryAt             *time.Time            `json:"deliveryAt,omitempty"`
	Codes                  *custodyCodesResponse `json:"codes,omitempty"`
}

func trackingSnapshotFromQuery(snapshot *queries.GetTrackingSnapshotQueryResponse) trackingSnapshotResponse {
	response := trackingSnapshotResponse{
		DealID:                 snapshot.DealID.String(),
		OrderID:                snapshot.OrderID.String(),
		Role:                   snapshot.Role,
		Status:                 snapshot.Status,
		PaymentStatus:          snapshot.PaymentStatus,
		PickupAddress:          snapshot.PickupAddress,
		DropAddress:            snapshot.DropAddress,
		LocationSharingEnabled: snapshot.LocationSharingEnabled,
		PickupAt:               snapshot.PickupAt,
		DeliveryAt:             snapshot.DeliveryAt,
	}
	if snapshot.TransporterID != nil {
		transporterID := snapshot.TransporterID.String()
		response.TransporterID = &transporterID
	}
	if snapshot.LastKnown != nil {
		response.LastKnown = &trackPointResponse{
			Latitude:  snapshot.LastKnown.Latitude,
			Longitude: snapshot.LastKnown.Longitude,
			At:        snapshot.LastKnown.At,
		}
	}
	if snapshot.Codes != nil {
		response.Codes = &custodyCodesResponse{
			PickupOtp:   snapshot.Codes.PickupOtp,
			DeliveryOtp: snapshot.Codes.DeliveryOtp,
		}
	}
	return response
}

func dealIDParam(c echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(c.Param("dealId"))
}

func optionalFloatParam(c echo.Context, name string) (*float64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &value, nil
}
