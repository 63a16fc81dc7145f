package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"os"

	"clobengine/internal/transport"
)

func main() {
	serverAddr := flag.String("server", "127.0.0.1:9001", "address of the matching engine")
	action := flag.String("action", "place", "action: place, cancel, get, orders, depth, market-data, trades, stats")

	symbol := flag.String("symbol", "BTC-USDT", "symbol, BASE-QUOTE or BASE/QUOTE")
	side := flag.String("side", "buy", "order side: buy or sell")
	orderType := flag.String("type", "limit", "order type: limit or market")
	price := flag.String("price", "", "limit price (required for limit orders)")
	qty := flag.String("qty", "1", "quantity")
	user := flag.String("user", "", "user id (required for place/cancel)")
	orderID := flag.String("order-id", "", "order id (required for cancel/get)")
	depth := flag.Int("depth", 10, "depth levels to request")
	limit := flag.Int("limit", 20, "trade history limit")

	flag.Parse()

	conn, err := net.Dial("tcp", *serverAddr)
	if err != nil {
		log.Fatalf("failed to connect to %s: %v", *serverAddr, err)
	}
	defer conn.Close()

	req, err := buildRequest(*action, *symbol, *side, *orderType, *price, *qty, *user, *orderID, *depth, *limit)
	if err != nil {
		log.Fatalf("invalid request: %v", err)
	}

	enc := json.NewEncoder(conn)
	if err := enc.Encode(req); err != nil {
		log.Fatalf("failed to send request: %v", err)
	}

	scanner := bufio.NewScanner(conn)
	if !scanner.Scan() {
		log.Fatalf("no response from server: %v", scanner.Err())
	}

	var resp transport.Response
	if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
		log.Fatalf("failed to parse response: %v", err)
	}

	out, _ := json.MarshalIndent(resp, "", "  ")
	fmt.Println(string(out))

	if resp.Error != "" {
		os.Exit(1)
	}
}

func buildRequest(action, symbol, side, orderType, price, qty, user, orderID string, depth, limit int) (transport.Request, error) {
	switch action {
	case "place":
		if user == "" {
			return transport.Request{}, fmt.Errorf("-user is required")
		}
		return transport.Request{
			Type: transport.ReqSubmitOrder, Symbol: symbol, Side: side,
			OrderType: orderType, Price: price, Quantity: qty, UserID: user,
		}, nil
	case "cancel":
		if user == "" || orderID == "" {
			return transport.Request{}, fmt.Errorf("-user and -order-id are required")
		}
		return transport.Request{Type: transport.ReqCancelOrder, OrderID: orderID, UserID: user}, nil
	case "get":
		if orderID == "" {
			return transport.Request{}, fmt.Errorf("-order-id is required")
		}
		return transport.Request{Type: transport.ReqGetOrder, OrderID: orderID}, nil
	case "orders":
		if user == "" {
			return transport.Request{}, fmt.Errorf("-user is required")
		}
		return transport.Request{Type: transport.ReqGetUserOrders, UserID: user}, nil
	case "depth":
		return transport.Request{Type: transport.ReqGetDepth, Symbol: symbol, Depth: depth}, nil
	case "market-data":
		return transport.Request{Type: transport.ReqGetMarketData, Symbol: symbol}, nil
	case "trades":
		return transport.Request{Type: transport.ReqGetTrades, Symbol: symbol, Limit: limit}, nil
	case "stats":
		return transport.Request{Type: transport.ReqGetStats}, nil
	default:
		return transport.Request{}, fmt.Errorf("unknown action %q", action)
	}
}
