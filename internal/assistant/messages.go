package assistant

const msgBienvenida = `¡Hola! 👋 Soy tu asistente para encontrar el destino Erasmus perfecto.

Para empezar, dime: ¿qué carrera estás estudiando?`

const msgCarreraNoReconocida = `🤔 No he reconocido esa carrera. Prueba a escribirla de otra forma, por ejemplo: "Ingeniería Informática", "Derecho", "Enfermería", "ADE"...`

const msgCarreraOK = `¡Perfecto! 🎓 Carrera registrada: **%s**

Ahora dime, ¿tienes algún certificado de idiomas? 🗣️

Por ejemplo: "Tengo un B2 de Inglés y un B1 de Italiano"
Si no tienes ninguno, escribe "no".`

const msgCertificadosNoReconocidos = `🤔 No he entendido tu respuesta. Indícame tus certificados con nivel e idioma (por ejemplo "B2 de Inglés") o escribe "no" si no tienes ninguno.`

const msgSinCertificados = `Entendido, buscaré destinos para %s sin requisito de idioma obligatorio. ✅
`

const msgConCertificados = `¡Genial! 🎓 Buscaré destinos para %s compatibles con tus certificados: %s.
`

const msgPreguntaCiudad = `
¿Prefieres una ciudad grande o pequeña? 🏙️

Escribe "grande" (más de 150.000 habitantes) o "pequeña" (menos de 150.000 habitantes).`

const msgCiudadNoReconocida = `🤔 No he entendido tu preferencia. Escribe "grande" o "pequeña", por favor.`

const msgPreguntaRegion = `¡Anotado! 📝

¿En qué región de Europa te gustaría estudiar? 🌍

Escribe "norte", "sur", "este" u "oeste".`

const msgRegionNoReconocida = `🤔 No he reconocido esa región. Escribe "norte", "sur", "este" u "oeste", por favor.`

const msgPreguntaClima = `¡Perfecto! 🗺️

Última pregunta: ¿prefieres clima frío o calor? 🌡️

Escribe "frío" o "calor".`

const msgClimaNoReconocido = `🤔 No te he entendido. Escribe "frío" o "calor", por favor.`

const msgSinDestinos = `😔 Lo siento, no he encontrado destinos para %s que cumplan todos tus requisitos.

Puedes iniciar una nueva conversación con otras preferencias, o consultar en la oficina de relaciones internacionales de tu facultad por si hubiera convenios recientes.`

const msgPideDescripcion = `Para afinar la recomendación, descríbeme con tus palabras cómo sería tu destino ideal. ✍️

Por ejemplo: "Me encanta la playa, la buena comida y salir de fiesta" o "Busco una ciudad con mucha historia y museos".`

const msgSinCandidatos = `😔 No he podido puntuar ninguno de los destinos con tu descripción. Prueba con una descripción menos restrictiva o inicia una nueva conversación.`

const msgDespedida = `✨ ¡Espero haberte ayudado a encontrar tu destino Erasmus ideal! Si quieres explorar otras opciones, inicia una nueva conversación. ¡Buen viaje! ✈️`

const msgFinalizado = `La conversación ha finalizado. 🏁 Inicia una nueva sesión para buscar otro destino.`
