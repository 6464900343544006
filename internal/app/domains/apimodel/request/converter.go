package request

import "paysvc/internal/app/domains/entity/etorder"

// ToOrderData 将 Request DTO 转换为领域对象（金额由服务端重新计算）
func (r *CheckoutRequest) ToOrderData() *etorder.OrderData {
	return &etorder.OrderData{
		Items:         toItemsEntity(r.Items),
		Shipping:      toAddressEntity(r.Shipping),
		Billing:       toBillingEntity(r.Billing),
		ShippingCost:  r.ShippingCost,
		Discount:      r.Discount,
		Currency:      r.Currency,
		PaymentMethod: etorder.PaymentMethod(r.PaymentMethod),
	}
}

func toItemsEntity(dtos []*Item) []*etorder.Item {
	items := make([]*etorder.Item, 0, len(dtos))
	for _, dto := range dtos {
		items = append(items, &etorder.Item{
			ProductID: dto.ProductID,
			Name:      dto.Name,
			SKU:       dto.SKU,
			Quantity:  dto.Quantity,
			UnitPrice: dto.UnitPrice,
		})
	}
	return items
}

func toAddressEntity(dto *Address) *etorder.Address {
	if dto == nil {
		return nil
	}
	return &etorder.Address{
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		Phone:     dto.Phone,
		Street:    dto.Street,
		City:      dto.City,
		State:     dto.State,
		Zip:       dto.Zip,
		Country:   dto.Country,
		Notes:     dto.Notes,
	}
}

func toBillingEntity(dto *Billing) *etorder.Billing {
	if dto == nil {
		return nil
	}
	return &etorder.Billing{
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		Email:     dto.Email,
		Phone:     dto.Phone,
		Company:   dto.Company,
		Street:    dto.Street,
		City:      dto.City,
		State:     dto.State,
		Zip:       dto.Zip,
		Country:   dto.Country,
	}
}
