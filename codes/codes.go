package codes

const (
	CODE_SUCCESS = 200

	CODE_ERR_BAD_PARAMS    = 400
	CODE_ERR_OBJ_NOT_FOUND = 404
	CODE_ERR_OBJ_EXISTS    = 409
	CODE_ERR_DB            = 500
	CODE_ERR_GRID          = 510
)
