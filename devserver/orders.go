package devserver

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/VersaceXcodes/food-truck-order-delivery-system-q5yqpj-sub001/models"
)

type orderItemInput struct {
	MenuItemID   string                  `json:"menu_item_id" binding:"required"`
	Quantity     int                     `json:"quantity" binding:"required,min=1"`
	Options      []models.SelectedOption `json:"options"`
	Instructions string                  `json:"instructions"`
}

type placeOrderRequest struct {
	TruckID         string                 `json:"truck_id" binding:"required"`
	FulfillmentType models.FulfillmentType `json:"fulfillment_type" binding:"required"`
	Items           []orderItemInput       `json:"items" binding:"required"`
	AddressID       string                 `json:"address_id"`
	Address         *models.Address        `json:"address"`
	PaymentToken    string                 `json:"payment_token" binding:"required"`
}

// placeOrderHandler recomputes all prices server-side from the menu; the
// client's snapshot totals are display-only.
func (s *Server) placeOrderHandler(c *gin.Context) {
	userID := c.GetString("user_id")

	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order has no items"})
		return
	}

	s.data.mu.Lock()
	truck, ok := s.data.trucks[req.TruckID]
	if !ok {
		s.data.mu.Unlock()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Truck does not exist"})
		return
	}
	if req.FulfillmentType == models.FulfillmentDelivery && !truck.SupportsDelivery {
		s.data.mu.Unlock()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Truck does not offer delivery"})
		return
	}

	var deliveryAddr *models.Address
	if req.FulfillmentType == models.FulfillmentDelivery {
		switch {
		case req.AddressID != "":
			for _, addr := range s.data.addresses[userID] {
				if addr.ID == req.AddressID {
					a := addr
					deliveryAddr = &a
				}
			}
			if deliveryAddr == nil {
				s.data.mu.Unlock()
				c.JSON(http.StatusBadRequest, gin.H{"error": "Address does not exist"})
				return
			}
		case req.Address != nil:
			deliveryAddr = req.Address
		default:
			s.data.mu.Unlock()
			c.JSON(http.StatusBadRequest, gin.H{"error": "Delivery orders need an address"})
			return
		}
	}

	subtotal := decimal.Zero
	var lines []models.OrderLine
	for _, in := range req.Items {
		item, ok := s.data.findMenuItem(req.TruckID, in.MenuItemID)
		if !ok {
			s.data.mu.Unlock()
			c.JSON(http.StatusBadRequest, gin.H{"error": "Menu item does not exist: " + in.MenuItemID})
			return
		}
		var options []models.SelectedOption
		for _, sel := range in.Options {
			opt, ok := s.data.findOption(item, sel.OptionID)
			if !ok {
				s.data.mu.Unlock()
				c.JSON(http.StatusBadRequest, gin.H{"error": "Option does not exist: " + sel.OptionID})
				return
			}
			options = append(options, opt)
		}
		lineTotal := models.ComputeLineTotal(item.BasePrice, options, in.Quantity)
		subtotal = subtotal.Add(lineTotal)
		lines = append(lines, models.OrderLine{
			MenuItemID:   item.ID,
			ItemName:     item.Name,
			Quantity:     in.Quantity,
			UnitPrice:    item.BasePrice,
			Options:      options,
			Instructions: in.Instructions,
			LineTotal:    lineTotal,
		})
	}

	if req.FulfillmentType == models.FulfillmentDelivery && subtotal.LessThan(truck.MinimumOrder) {
		s.data.mu.Unlock()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Subtotal is below the truck's delivery minimum"})
		return
	}

	tax := truck.TaxRate.Mul(subtotal).Round(2)
	deliveryFee := decimal.Zero
	if req.FulfillmentType == models.FulfillmentDelivery {
		deliveryFee = truck.DeliveryFee
	}

	acc := s.data.accounts[userID]
	customerName := ""
	if acc != nil {
		customerName = acc.Name
	}
	addressSnippet := ""
	if deliveryAddr != nil {
		addressSnippet = deliveryAddr.Snippet()
	}

	now := nowUTC()
	order := &models.OrderDetail{
		OrderSummary: models.OrderSummary{
			ID:              uuid.NewString(),
			OrderNumber:     s.data.nextOrderNumber(),
			TruckID:         req.TruckID,
			CustomerName:    customerName,
			FulfillmentType: req.FulfillmentType,
			Status:          models.OrderStatusPendingConfirmation,
			TotalAmount:     subtotal.Add(tax).Add(deliveryFee),
			AddressSnippet:  addressSnippet,
			CreatedAt:       now,
			Version:         1,
		},
		CustomerID:       userID,
		Items:            lines,
		Subtotal:         subtotal,
		TaxAmount:        tax,
		DeliveryFee:      deliveryFee,
		DeliveryAddress:  deliveryAddr,
		PaymentReference: req.PaymentToken,
		History:          []models.StatusChange{{Status: models.OrderStatusPendingConfirmation, At: now}},
	}
	s.data.orders[order.ID] = order
	summary := order.OrderSummary
	s.data.mu.Unlock()

	s.hub.sendToTruck(req.TruckID, eventNewOrderForOperator, summary)
	s.log.Info().Str("order_number", summary.OrderNumber).Msg("order placed")

	c.JSON(http.StatusCreated, order)
}

func (s *Server) customerOrdersHandler(c *gin.Context) {
	userID := c.GetString("user_id")

	s.data.mu.Lock()
	var out []models.OrderSummary
	for _, o := range s.data.orders {
		if o.CustomerID == userID {
			out = append(out, o.OrderSummary)
		}
	}
	s.data.mu.Unlock()

	sortByCreatedDesc(out)
	c.JSON(http.StatusOK, out)
}

func (s *Server) getOrderHandler(c *gin.Context) {
	orderID := c.Param("orderID")

	s.data.mu.Lock()
	order, ok := s.data.orders[orderID]
	s.data.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (s *Server) operatorPendingHandler(c *gin.Context) {
	s.operatorList(c, func(status models.OrderStatus) bool {
		return status == models.OrderStatusPendingConfirmation
	})
}

func (s *Server) operatorActiveHandler(c *gin.Context) {
	s.operatorList(c, models.OrderStatus.IsActive)
}

func (s *Server) operatorList(c *gin.Context, match func(models.OrderStatus) bool) {
	truckID := c.GetString("truck_id")

	s.data.mu.Lock()
	var out []models.OrderSummary
	for _, o := range s.data.orders {
		if o.TruckID == truckID && match(o.Status) {
			out = append(out, o.OrderSummary)
		}
	}
	s.data.mu.Unlock()

	sortByCreatedDesc(out)
	c.JSON(http.StatusOK, out)
}

type updateStatusRequest struct {
	Status           string `json:"status" binding:"required"`
	Reason           string `json:"reason"`
	EstimatedMinutes int    `json:"estimated_minutes"`
}

func (s *Server) updateOrderStatusHandler(c *gin.Context) {
	orderID := c.Param("orderID")
	truckID := c.GetString("truck_id")

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	newStatus, err := models.ParseOrderStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if newStatus.ReasonRequired() && req.Reason == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A reason is required for " + req.Status})
		return
	}

	s.data.mu.Lock()
	order, ok := s.data.orders[orderID]
	if !ok || order.TruckID != truckID {
		s.data.mu.Unlock()
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if !models.CanTransition(order.Status, newStatus, order.PriorStatus) {
		s.data.mu.Unlock()
		c.JSON(http.StatusConflict, gin.H{"error": "Cannot move order from " + string(order.Status) + " to " + string(newStatus)})
		return
	}

	order.Status = newStatus
	order.PriorStatus = ""
	order.Version++
	if req.Reason != "" {
		order.Reason = req.Reason
	}
	if req.EstimatedMinutes > 0 {
		order.EstimatedMinutes = req.EstimatedMinutes
	}
	order.History = append(order.History, models.StatusChange{Status: newStatus, At: nowUTC()})
	summary := order.OrderSummary
	customerID := order.CustomerID
	s.data.mu.Unlock()

	s.hub.sendToCustomer(customerID, eventOrderStatusUpdateForCustomer, summary)
	s.log.Info().Str("order_number", summary.OrderNumber).Str("status", string(newStatus)).Msg("order status updated")

	c.JSON(http.StatusOK, summary)
}

type cancellationRequestInput struct {
	Reason string `json:"reason"`
}

func (s *Server) requestCancellationHandler(c *gin.Context) {
	orderID := c.Param("orderID")
	userID := c.GetString("user_id")

	var req cancellationRequestInput
	_ = c.ShouldBindJSON(&req)

	s.data.mu.Lock()
	order, ok := s.data.orders[orderID]
	if !ok || order.CustomerID != userID {
		s.data.mu.Unlock()
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if !order.Status.IsActive() || order.Status == models.OrderStatusCancellationRequested {
		s.data.mu.Unlock()
		c.JSON(http.StatusConflict, gin.H{"error": "Order cannot be cancelled in status " + string(order.Status)})
		return
	}

	order.PriorStatus = order.Status
	order.Status = models.OrderStatusCancellationRequested
	order.Version++
	if req.Reason != "" {
		order.Reason = req.Reason
	}
	order.History = append(order.History, models.StatusChange{Status: order.Status, At: nowUTC()})
	summary := order.OrderSummary
	truckID := order.TruckID
	s.data.mu.Unlock()

	s.hub.sendToTruck(truckID, eventCustomerCancellationRequest, summary)

	c.JSON(http.StatusOK, summary)
}

func sortByCreatedDesc(orders []models.OrderSummary) {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
