package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/WheelShare/WheelShare/internal/booking"
	"github.com/WheelShare/WheelShare/internal/vehicle"
)

func renderVehicles(w io.Writer, list []vehicle.Vehicle) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\t车名\t类目\t日租价\t地点\t状态")
	for _, v := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t$%.2f\t%s\t%s\n",
			v.ID, v.VehicleName, v.Category, v.PricePerDay, v.Location, v.Availability)
	}
	_ = tw.Flush()
}

func renderVehicleDetail(w io.Writer, rec *booking.Reconciler) {
	v := rec.Vehicle()
	if v == nil {
		fmt.Fprintln(w, "vehicle not loaded")
		return
	}
	fmt.Fprintf(w, "%s（%s）\n", v.VehicleName, v.Category)
	fmt.Fprintf(w, "  车主:   %s <%s>\n", v.Owner, v.UserEmail)
	fmt.Fprintf(w, "  日租价: $%.2f\n", v.PricePerDay)
	fmt.Fprintf(w, "  地点:   %s\n", v.Location)
	fmt.Fprintf(w, "  状态:   %s\n", v.Availability)
	fmt.Fprintf(w, "  上架于: %s\n", v.CreatedAt.Format("2006-01-02"))
	if v.Description != "" {
		fmt.Fprintf(w, "  描述:   %s\n", v.Description)
	}

	switch {
	case rec.State() == booking.StatusAlreadyBooked:
		fmt.Fprintln(w, "订车: 你已订过这辆车")
	case rec.CanBook():
		fmt.Fprintln(w, "订车: 可预订（book 命令）")
	default:
		fmt.Fprintln(w, "订车: 当前不可预订")
	}
}

func renderBookings(w io.Writer, list []booking.Booking) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "车辆\t日租价\t下单时间")
	for _, b := range list {
		fmt.Fprintf(tw, "%s\t$%.2f\t%s\n",
			b.VehicleName, b.PricePerDay, b.BookingDate.Format("2006-01-02 15:04"))
	}
	_ = tw.Flush()
}
