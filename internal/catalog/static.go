package catalog

import "github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/enums"

// staticServices is the compiled-in catalog in display order.
var staticServices = []Service{
	// Autónomos
	{
		Code:        "aut_alta_baja_24_48h",
		Name:        "Alta/Baja autónomo (24/48h – CIRCE o por separado)",
		Category:    enums.CategoryAutonomos,
		Description: "Gestión completa de alta y baja de autónomo en 24-48 horas",
	},
	{
		Code:     "aut_baja_347",
		Name:     "Baja autónomos (modelo 347, más de 5 perceptores)",
		Category: enums.CategoryAutonomos,
		Details: []DetailField{
			{Field: "perceptores", Label: "Número de perceptores", Kind: enums.DetailKindNumber, Required: true, Placeholder: "Ej: 120"},
		},
	},
	{
		Code:        "aut_alta_express",
		Name:        "Alta Express (mismo día, obligatorio NAF + Certificado digital)",
		Category:    enums.CategoryAutonomos,
		Description: "Alta de autónomo en el mismo día con NAF y certificado digital obligatorios",
	},
	{
		Code:     "aut_alta_roi",
		Name:     "Alta en ROI",
		Category: enums.CategoryAutonomos,
	},
	{
		Code:     "aut_alta_baja_trimestre_10",
		Name:     "Alta + Baja + Trimestre (hasta 10 facturas)",
		Category: enums.CategoryAutonomos,
		Details: []DetailField{
			{Field: "facturas", Label: "Número de facturas", Kind: enums.DetailKindNumber, Required: true, Placeholder: "Máximo 10"},
		},
	},
	{
		Code:     "aut_alta_baja_trimestre_resumen_10",
		Name:     "Alta + Baja + Trimestre + Resumen anual (hasta 10 facturas)",
		Category: enums.CategoryAutonomos,
		Details: []DetailField{
			{Field: "facturas", Label: "Número de facturas", Kind: enums.DetailKindNumber, Required: true, Placeholder: "Máximo 10"},
		},
	},
	{
		Code:     "aut_consultoria_1h",
		Name:     "Consultoría (1 hora aprox.)",
		Category: enums.CategoryAutonomos,
		Details: []DetailField{
			{Field: "tema", Label: "Tema de consulta", Kind: enums.DetailKindTextarea, Required: true, Placeholder: "Describe brevemente el tema a consultar"},
		},
	},
	{
		Code:     "aut_factura_electronica_openges",
		Name:     "Factura electrónica clientes OpenGes (puntual)",
		Category: enums.CategoryAutonomos,
	},
	{
		Code:     "aut_modelo_233",
		Name:     "Modelo 233 (guarderías, anual)",
		Category: enums.CategoryAutonomos,
	},
	{
		Code:     "aut_modelo_151",
		Name:     "Modelo 151",
		Category: enums.CategoryAutonomos,
	},
	{
		Code:     "aut_modelo_720",
		Name:     "Modelo 720",
		Category: enums.CategoryAutonomos,
	},
	{
		Code:     "aut_modelo_721",
		Name:     "Modelo 721",
		Category: enums.CategoryAutonomos,
	},
	{
		Code:     "aut_modelo_210",
		Name:     "Modelo 210",
		Category: enums.CategoryAutonomos,
	},
	{
		Code:     "aut_certificado_digital",
		Name:     "Certificado digital",
		Category: enums.CategoryAutonomos,
	},
	{
		Code:     "aut_facturas_extras",
		Name:     "Facturas extras para contabilidad (PDF / Excel)",
		Category: enums.CategoryAutonomos,
		Details: []DetailField{
			{Field: "cantidad", Label: "Cantidad de facturas", Kind: enums.DetailKindNumber, Required: true},
		},
	},
	{
		Code:     "aut_requerimientos_aeat",
		Name:     "Requerimientos AEAT (consultar con coordinador)",
		Category: enums.CategoryAutonomos,
		Details: []DetailField{
			{Field: "detalles", Label: "Detalles del requerimiento", Kind: enums.DetailKindTextarea, Required: true},
		},
	},
	{
		Code:     "aut_modelo_035_036",
		Name:     "Modelo 035/036",
		Category: enums.CategoryAutonomos,
	},
	{
		Code:     "aut_modelo_840",
		Name:     "Modelo 840",
		Category: enums.CategoryAutonomos,
	},
	{
		Code:     "aut_modelo_952",
		Name:     "Modelo 952 + adjuntar documentación",
		Category: enums.CategoryAutonomos,
		Details: []DetailField{
			{Field: "documentacion", Label: "Descripción de documentación", Kind: enums.DetailKindTextarea, Required: true},
		},
	},
	// Sociedades
	{
		Code:     "soc_activar_inactivar",
		Name:     "Activar o inactivar sociedad solo AEAT",
		Category: enums.CategorySociedades,
	},
	{
		Code:     "soc_impuesto_sociedades",
		Name:     "Impuesto de Sociedades (elaboración + presentación)",
		Category: enums.CategorySociedades,
	},
	{
		Code:     "soc_cuentas_anuales",
		Name:     "Elaboración cuentas anuales + presentación",
		Category: enums.CategorySociedades,
	},
	{
		Code:     "soc_libros",
		Name:     "Elaboración de libros + presentación",
		Category: enums.CategorySociedades,
	},
	{
		Code:     "soc_cuentas_libros",
		Name:     "Elaboración cuentas anuales + elaboración de libros + presentación",
		Category: enums.CategorySociedades,
	},
	{
		Code:     "soc_balance_cuentas",
		Name:     "Balance de cuentas",
		Category: enums.CategorySociedades,
	},
	{
		Code:     "soc_cierre_contable",
		Name:     "Cierre contable",
		Category: enums.CategorySociedades,
	},
	{
		Code:     "soc_consultoria_1h",
		Name:     "Consultoría (1 hora aprox.)",
		Category: enums.CategorySociedades,
		Details: []DetailField{
			{Field: "tema", Label: "Tema de consulta", Kind: enums.DetailKindTextarea, Required: true, Placeholder: "Describe brevemente el tema a consultar"},
		},
	},
	{
		Code:     "soc_factura_electronica_openges",
		Name:     "Factura electrónica clientes OpenGes (puntual)",
		Category: enums.CategorySociedades,
	},
	{
		Code:     "soc_modelo_233",
		Name:     "Modelo 233 (guarderías)",
		Category: enums.CategorySociedades,
	},
	{
		Code:     "soc_modelo_165",
		Name:     "Modelo 165",
		Category: enums.CategorySociedades,
	},
	{
		Code:     "soc_modelo_232",
		Name:     "Modelo 232",
		Category: enums.CategorySociedades,
	},
	{
		Code:     "soc_certificado_digital",
		Name:     "Certificado digital",
		Category: enums.CategorySociedades,
	},
	{
		Code:     "soc_facturas_extras",
		Name:     "Facturas extras para contabilidad (PDF / Excel)",
		Category: enums.CategorySociedades,
		Details: []DetailField{
			{Field: "cantidad", Label: "Cantidad de facturas", Kind: enums.DetailKindNumber, Required: true},
		},
	},
	{
		Code:     "soc_requerimientos_aeat",
		Name:     "Requerimientos AEAT (consultar con coordinador)",
		Category: enums.CategorySociedades,
		Details: []DetailField{
			{Field: "detalles", Label: "Detalles del requerimiento", Kind: enums.DetailKindTextarea, Required: true},
		},
	},
	{
		Code:     "soc_modelo_035_036",
		Name:     "Modelo 035/036",
		Category: enums.CategorySociedades,
	},
	{
		Code:     "soc_modelo_036_inicio_cese",
		Name:     "Modelo 036 inicio / cese actividad",
		Category: enums.CategorySociedades,
	},
	{
		Code:     "soc_solicitud_nif_n",
		Name:     "Solicitud NIF \"N\" establecimiento no permanente",
		Category: enums.CategorySociedades,
	},
	{
		Code:     "soc_diligencia_embargo",
		Name:     "Diligencia de embargo de créditos (contestación)",
		Category: enums.CategorySociedades,
	},
	{
		Code:     "soc_cartas_pago_nrc",
		Name:     "Cartas de pago/pago NRC en AEAT",
		Category: enums.CategorySociedades,
	},
	{
		Code:     "soc_autoliquidaciones_complementarias",
		Name:     "Autoliquidaciones complementarias por error del cliente",
		Category: enums.CategorySociedades,
	},
	{
		Code:     "soc_autoliquidacion_trimestral_complementaria",
		Name:     "Autoliquidación trimestral complementaria + resumen anual IVA por error del cliente",
		Category: enums.CategorySociedades,
	},
	{
		Code:     "soc_certificados_aeat_tgss",
		Name:     "Certificados AEAT/TGSS",
		Category: enums.CategorySociedades,
	},
	{
		Code:     "soc_requerimiento_renta_iva",
		Name:     "Requerimiento renta/IVA/sociedades",
		Category: enums.CategorySociedades,
	},
	{
		Code:     "soc_alegaciones_requerimientos",
		Name:     "Alegaciones requerimientos/propuestas de liquidación renta/IVA/sociedades",
		Category: enums.CategorySociedades,
	},
	{
		Code:     "soc_alta_roi",
		Name:     "Alta ROI",
		Category: enums.CategorySociedades,
	},
	{
		Code:     "soc_levantamiento_embargo",
		Name:     "Levantamiento de embargo/aportación pago de deudas",
		Category: enums.CategorySociedades,
	},
	{
		Code:     "soc_modelo_840",
		Name:     "Modelo 840",
		Category: enums.CategorySociedades,
	},
	{
		Code:     "soc_modelo_952",
		Name:     "Modelo 952 + adjuntar documentación",
		Category: enums.CategorySociedades,
		Details: []DetailField{
			{Field: "documentacion", Label: "Descripción de documentación", Kind: enums.DetailKindTextarea, Required: true},
		},
	},
	{
		Code:     "soc_identificacion_titular_real",
		Name:     "Identificación titular real",
		Category: enums.CategorySociedades,
	},
	{
		Code:     "soc_cancelacion_prorroga_tarifa_plana",
		Name:     "Cancelación prórroga tarifa plana + comunicación base y rendimientos",
		Category: enums.CategorySociedades,
	},
	{
		Code:     "soc_cambio_bases_cotizacion",
		Name:     "Cambio de bases cotización RETA",
		Category: enums.CategorySociedades,
	},
	{
		Code:     "soc_aplazamientos_tgss_aeat",
		Name:     "Aplazamientos en TGSS/AEAT",
		Category: enums.CategorySociedades,
	},
	{
		Code:     "soc_aplazamientos_ss_reta_sepe",
		Name:     "Aplazamientos en SS para RETA o SEPE",
		Category: enums.CategorySociedades,
	},
	// Laboral
	{
		Code:     "lab_alta_tgss_contrato_sepe",
		Name:     "Alta TGSS, contrato y SEPE",
		Category: enums.CategoryLaboral,
		Details: []DetailField{
			{Field: "trabajadores", Label: "Número de trabajadores", Kind: enums.DetailKindNumber, Required: true},
		},
	},
	{
		Code:     "lab_extincion_contratos",
		Name:     "Extinción contratos baja voluntaria, periodo prueba o fin de contrato",
		Category: enums.CategoryLaboral,
		Details: []DetailField{
			{Field: "trabajadores", Label: "Número de trabajadores", Kind: enums.DetailKindNumber, Required: true},
		},
	},
	{
		Code:     "lab_modificacion_condiciones",
		Name:     "Modificación condiciones contractuales",
		Category: enums.CategoryLaboral,
		Details: []DetailField{
			{Field: "trabajadores", Label: "Número de trabajadores", Kind: enums.DetailKindNumber, Required: true},
		},
	},
	{
		Code:     "lab_despido_trabajadores",
		Name:     "Despido de trabajadores",
		Category: enums.CategoryLaboral,
		Details: []DetailField{
			{Field: "trabajadores", Label: "Número de trabajadores", Kind: enums.DetailKindNumber, Required: true},
		},
	},
	{
		Code:     "lab_calculo_indemnizacion",
		Name:     "Cálculo indemnización despido (solo cálculo)",
		Category: enums.CategoryLaboral,
		Details: []DetailField{
			{Field: "trabajadores", Label: "Número de trabajadores", Kind: enums.DetailKindNumber, Required: true},
		},
	},
	{
		Code:     "lab_deltas_trabajadores",
		Name:     "Deltas de trabajadores",
		Category: enums.CategoryLaboral,
		Details: []DetailField{
			{Field: "trabajadores", Label: "Número de trabajadores", Kind: enums.DetailKindNumber, Required: true},
		},
	},
	{
		Code:     "lab_modificaciones_nominas",
		Name:     "Modificaciones nóminas",
		Category: enums.CategoryLaboral,
		Details: []DetailField{
			{Field: "nominas", Label: "Número de nóminas", Kind: enums.DetailKindNumber, Required: true},
		},
	},
	{
		Code:     "lab_nominas_puntuales",
		Name:     "Nóminas puntuales",
		Category: enums.CategoryLaboral,
		Details: []DetailField{
			{Field: "nominas", Label: "Número de nóminas", Kind: enums.DetailKindNumber, Required: true},
		},
	},
	{
		Code:     "lab_precontrato_t300",
		Name:     "Precontrato - T300",
		Category: enums.CategoryLaboral,
	},
	{
		Code:     "lab_subrogacion_ccc",
		Name:     "Subrogación C.C.C.",
		Category: enums.CategoryLaboral,
	},
	{
		Code:     "lab_subrogacion_empleado",
		Name:     "Subrogación empleado",
		Category: enums.CategoryLaboral,
	},
	{
		Code:     "lab_deltas_autonomos",
		Name:     "Deltas de autónomos sin nómina",
		Category: enums.CategoryLaboral,
	},
	{
		Code:     "lab_simulaciones",
		Name:     "Simulaciones costes o despido",
		Category: enums.CategoryLaboral,
	},
	{
		Code:     "lab_pago_directo_autonomo",
		Name:     "Pago directo autónomo por baja IT",
		Category: enums.CategoryLaboral,
	},
	{
		Code:     "lab_alta_baja_autonomo",
		Name:     "Alta/baja autónomo y cambio condición autónomo",
		Category: enums.CategoryLaboral,
	},
	{
		Code:     "lab_modificaciones_autonomos",
		Name:     "Modificaciones autónomos",
		Category: enums.CategoryLaboral,
	},
	{
		Code:     "lab_maternidad_paternidad",
		Name:     "Maternidad/paternidad",
		Category: enums.CategoryLaboral,
	},
	{
		Code:     "lab_cambios_datos_empresa",
		Name:     "Cambios datos empresa",
		Category: enums.CategoryLaboral,
	},
	{
		Code:     "lab_acuerdo_teletrabajo",
		Name:     "Acuerdo de teletrabajo y contratos alta dirección-mercantil",
		Category: enums.CategoryLaboral,
	},
	{
		Code:     "lab_contestacion_embargos",
		Name:     "Contestación embargos",
		Category: enums.CategoryLaboral,
	},
	{
		Code:     "lab_ccc_empleada_hogar_sin_nomina",
		Name:     "CCC empleada de hogar + alta sin nómina mensual",
		Category: enums.CategoryLaboral,
	},
	{
		Code:     "lab_ccc_empleada_hogar_con_nomina",
		Name:     "CCC empleada de hogar + alta con nómina mensual",
		Category: enums.CategoryLaboral,
	},
	{
		Code:     "lab_obtencion_ccc",
		Name:     "Obtención CCC / comunicar centro de trabajo",
		Category: enums.CategoryLaboral,
	},
	{
		Code:     "lab_devolucion_ingresos",
		Name:     "Devolución de ingresos indebidos",
		Category: enums.CategoryLaboral,
	},
	{
		Code:     "lab_carta_pago_flc",
		Name:     "Carta de pago FLC - Seg sociales",
		Category: enums.CategoryLaboral,
	},
	{
		Code:     "lab_comunicacion_baja_voluntaria",
		Name:     "Comunicación baja voluntaria fijos discontinuos",
		Category: enums.CategoryLaboral,
	},
	{
		Code:     "lab_solicitud_alta_nif",
		Name:     "Solicitud alta o NIF sustitutorio NAF",
		Category: enums.CategoryLaboral,
	},
	{
		Code:     "lab_nominas_trabajadores_remesa",
		Name:     "Nóminas trabajadores y remesa",
		Category: enums.CategoryLaboral,
		Details: []DetailField{
			{Field: "trabajadores", Label: "Número de trabajadores", Kind: enums.DetailKindNumber, Required: true},
		},
	},
	{
		Code:     "lab_empresas_ordinarias_especiales",
		Name:     "Empresas ordinarias especiales (REA)",
		Category: enums.CategoryLaboral,
	},
	{
		Code:     "lab_informes_sistema_red",
		Name:     "Informes solicitud sistema RED",
		Category: enums.CategoryLaboral,
	},
	{
		Code:     "lab_contestacion_aval",
		Name:     "Contestación aval/altas/bajas",
		Category: enums.CategoryLaboral,
	},
	{
		Code:     "lab_tramites_urgentes",
		Name:     "Trámites urgentes altas/bajas/finiquitos",
		Category: enums.CategoryLaboral,
	},
	// Trimestres
	{
		Code:     "trim_menos_5_facturas",
		Name:     "Menos de 5 facturas al trimestre",
		Category: enums.CategoryTrimestres,
		Details: []DetailField{
			{Field: "facturas", Label: "Número de facturas", Kind: enums.DetailKindNumber, Required: true, Placeholder: "Menos de 5"},
		},
	},
	{
		Code:     "trim_6_20_facturas",
		Name:     "De 6 a 20 facturas al trimestre",
		Category: enums.CategoryTrimestres,
		Details: []DetailField{
			{Field: "facturas", Label: "Número de facturas", Kind: enums.DetailKindNumber, Required: true, Placeholder: "Entre 6 y 20"},
		},
	},
	{
		Code:     "trim_21_50_facturas",
		Name:     "De 21 a 50 facturas al trimestre",
		Category: enums.CategoryTrimestres,
		Details: []DetailField{
			{Field: "facturas", Label: "Número de facturas", Kind: enums.DetailKindNumber, Required: true, Placeholder: "Entre 21 y 50"},
		},
	},
	{
		Code:     "trim_mas_50_facturas",
		Name:     "Más de 50 facturas al trimestre",
		Category: enums.CategoryTrimestres,
		Details: []DetailField{
			{Field: "facturas", Label: "Número de facturas", Kind: enums.DetailKindNumber, Required: true, Placeholder: "Más de 50"},
		},
	},
	{
		Code:     "trim_modelo_adicional",
		Name:     "Modelo trimestral adicional",
		Category: enums.CategoryTrimestres,
	},
	{
		Code:     "trim_modelo_anual",
		Name:     "Modelo anual",
		Category: enums.CategoryTrimestres,
	},
	{
		Code:     "trim_iva_alquiler",
		Name:     "Modelo IVA por alquiler local",
		Category: enums.CategoryTrimestres,
	},
}
