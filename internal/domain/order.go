// Пакет domain — модели заказов bol.com и разбор ответов Retailer API.
// Из ответов извлекаются только нужные поля; всё, кроме идентификаторов,
// считается необязательным и получает явное пустое значение.
package domain

import (
	"encoding/json"
	"fmt"
)

// OrderSummary — элемент списка заказов. Нужен только идентификатор.
type OrderSummary struct {
	OrderID string
}

// OrderList — распарсенный ответ списка заказов.
type OrderList struct {
	Orders []OrderSummary
}

// OrderDetail — распарсенные детали одного заказа.
type OrderDetail struct {
	OrderDateTime string // пустая строка, если API не вернул дату
	Items         []DetailItem
}

// DetailItem — позиция заказа из детального ответа.
type DetailItem struct {
	OrderItemID string
	EAN         string
	Title       string
	Quantity    *int // nil, если количество не передано
}

// OrderItem — строка экспорта. Неизменяема после создания:
// один раз попадает в артефакт экспорта и один раз — в леджер состояния.
type OrderItem struct {
	ExportDate       string
	OrderID          string
	OrderDateTime    string
	OrderItemID      string
	EAN              string
	Title            string
	Quantity         *int
	FulfilmentMethod string
}

// NewOrderItem — сборка строки экспорта из деталей заказа.
func NewOrderItem(exportDate, orderID string, detail OrderDetail, item DetailItem, fulfilmentMethod string) OrderItem {
	return OrderItem{
		ExportDate:       exportDate,
		OrderID:          orderID,
		OrderDateTime:    detail.OrderDateTime,
		OrderItemID:      item.OrderItemID,
		EAN:              item.EAN,
		Title:            item.Title,
		Quantity:         item.Quantity,
		FulfilmentMethod: fulfilmentMethod,
	}
}

// rawOrderSummary — сырой элемент списка; API встречается в двух написаниях ключа.
type rawOrderSummary struct {
	OrderID    string `json:"orderId"`
	OrderIDAlt string `json:"order_id"`
}

type rawOrderList struct {
	Orders []rawOrderSummary `json:"orders"`
}

type rawProduct struct {
	EAN   string `json:"ean"`
	Title string `json:"title"`
}

type rawDetailItem struct {
	OrderItemID string     `json:"orderItemId"`
	Quantity    *int       `json:"quantity"`
	Product     rawProduct `json:"product"`
}

type rawOrderDetail struct {
	OrderPlacedDateTime string          `json:"orderPlacedDateTime"`
	OrderDateTime       string          `json:"orderDateTime"`
	OrderItems          []rawDetailItem `json:"orderItems"`
}

// ParseOrderList — разбор ответа списка заказов.
// Отсутствующий ключ "orders" трактуется как пустой список;
// тело не-объект — это ошибка, а не тихий пустой результат.
func ParseOrderList(data []byte) (OrderList, error) {
	var raw rawOrderList
	if err := json.Unmarshal(data, &raw); err != nil {
		return OrderList{}, fmt.Errorf("order list payload: %w", err)
	}

	list := OrderList{Orders: make([]OrderSummary, 0, len(raw.Orders))}
	for _, o := range raw.Orders {
		id := o.OrderID
		if id == "" {
			id = o.OrderIDAlt
		}
		list.Orders = append(list.Orders, OrderSummary{OrderID: id})
	}
	return list, nil
}

// ParseOrderDetail — разбор детального ответа по заказу.
// Дата берётся из orderPlacedDateTime, запасной вариант — orderDateTime.
func ParseOrderDetail(data []byte) (OrderDetail, error) {
	var raw rawOrderDetail
	if err := json.Unmarshal(data, &raw); err != nil {
		return OrderDetail{}, fmt.Errorf("order detail payload: %w", err)
	}

	detail := OrderDetail{
		OrderDateTime: raw.OrderPlacedDateTime,
		Items:         make([]DetailItem, 0, len(raw.OrderItems)),
	}
	if detail.OrderDateTime == "" {
		detail.OrderDateTime = raw.OrderDateTime
	}

	for _, it := range raw.OrderItems {
		detail.Items = append(detail.Items, DetailItem{
			OrderItemID: it.OrderItemID,
			EAN:         it.Product.EAN,
			Title:       it.Product.Title,
			Quantity:    it.Quantity,
		})
	}
	return detail, nil
}
