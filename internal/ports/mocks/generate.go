package mocks

//go:generate mockgen -source=../logger.go        -destination=./mock_logger.go        -package=mocks
//go:generate mockgen -source=../order_fetcher.go -destination=./mock_order_fetcher.go -package=mocks
//go:generate mockgen -source=../token_source.go  -destination=./mock_token_source.go  -package=mocks
//go:generate mockgen -source=../state_store.go   -destination=./mock_state_store.go   -package=mocks
//go:generate mockgen -source=../export_writer.go -destination=./mock_export_writer.go -package=mocks
